package storage

import (
	"fmt"
	"strconv"
	"strings"
	"sync"
	"time"
)

const (
	TimestampLayout = "2006-01-02-15-04"
	LogFileName     = "log.txt"
)

// OutputFolder names meme files as <base>_<timestamp>_<counter>.png and keeps the run log.
type OutputFolder interface {
	NextFile(now time.Time) (path string, name string, err error)
	AppendLog(entry LogEntry) error
	Path() string
}

type LogEntry struct {
	FileName            string
	BasicInstructions   string
	SpecialInstructions string
	UserPrompt          string
	CaptionText         string
	ImagePrompt         string
	Platform            string
}

func (e LogEntry) String() string {
	var b strings.Builder
	b.WriteString("\n")
	fmt.Fprintf(&b, "Meme File Name: %s\n", e.FileName)
	fmt.Fprintf(&b, "AI Basic Instructions: %s\n", e.BasicInstructions)
	fmt.Fprintf(&b, "AI Special Image Instructions: %s\n", e.SpecialInstructions)
	fmt.Fprintf(&b, "User Prompt: '%s'\n", e.UserPrompt)
	fmt.Fprintf(&b, "Chat Bot Meme Text: %s\n", e.CaptionText)
	fmt.Fprintf(&b, "Chat Bot Image Prompt: %s\n", e.ImagePrompt)
	fmt.Fprintf(&b, "Image Generation Platform: %s\n", e.Platform)
	b.WriteString("\n")
	return b.String()
}

type outputFolder struct {
	storage  FileStorage
	baseName string

	mu     sync.Mutex
	issued map[string]int // последний выданный счетчик для каждой метки времени
}

func NewOutputFolder(storage FileStorage, baseName string) OutputFolder {
	return &outputFolder{
		storage:  storage,
		baseName: baseName,
		issued:   make(map[string]int),
	}
}

// NextFile picks 1 + the highest counter already used for the current minute, on disk or
// handed out earlier by this process.
func (o *outputFolder) NextFile(now time.Time) (string, string, error) {
	o.mu.Lock()
	defer o.mu.Unlock()

	timestamp := now.Format(TimestampLayout)
	prefix := o.baseName + "_" + timestamp + "_"

	names, err := o.storage.List("")
	if err != nil {
		return "", "", err
	}

	maxCounter := o.issued[timestamp]
	for _, name := range names {
		if !strings.HasPrefix(name, prefix) || !strings.HasSuffix(name, ".png") {
			continue
		}
		counter, err := strconv.Atoi(strings.TrimSuffix(strings.TrimPrefix(name, prefix), ".png"))
		if err != nil {
			continue
		}
		if counter > maxCounter {
			maxCounter = counter
		}
	}

	next := maxCounter + 1
	o.issued[timestamp] = next

	fileName := prefix + strconv.Itoa(next) + ".png"
	return o.storage.FullPath(fileName), fileName, nil
}

func (o *outputFolder) AppendLog(entry LogEntry) error {
	return o.storage.Append(LogFileName, entry.String())
}

func (o *outputFolder) Path() string {
	return o.storage.FullPath("")
}
