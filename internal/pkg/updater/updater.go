// Package updater checks GitHub releases for a newer version of the generator.
package updater

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/mod/semver"
)

const (
	ChannelStable = "stable"
	ChannelAll    = "all"

	DefaultAPIURL = "https://api.github.com"
	DefaultRepo   = "hunny44/memegeneratorAI"

	// сколько релизов после первого просматривается в канале all
	extraReleases = 9
)

var ErrRateLimited = errors.New("rate limited by github, try again later")

type Release struct {
	Name       string `json:"name"`
	TagName    string `json:"tag_name"`
	Prerelease bool   `json:"prerelease"`
}

type Result struct {
	Available bool
	Beta      bool
	Current   string
	Latest    string
}

type Checker struct {
	APIURL string
	Repo   string
	Client *http.Client
}

func NewChecker() *Checker {
	return &Checker{
		APIURL: DefaultAPIURL,
		Repo:   DefaultRepo,
		Client: &http.Client{Timeout: 10 * time.Second},
	}
}

// Check compares current against the newest release of the channel.
func (c *Checker) Check(ctx context.Context, current, channel string) (*Result, error) {
	channel = strings.ToLower(strings.TrimSpace(channel))

	var (
		latest Release
		err    error
	)
	switch channel {
	case ChannelStable:
		err = c.get(ctx, "/releases/latest", &latest)
	case ChannelAll:
		var releases []Release
		if err = c.get(ctx, "/releases", &releases); err == nil {
			latest, err = pickLatest(releases)
		}
	default:
		return nil, fmt.Errorf("unknown release channel %q", channel)
	}
	if err != nil {
		return nil, err
	}

	latestVersion := canonical(latest.version())
	currentVersion := canonical(current)
	if !semver.IsValid(latestVersion) || !semver.IsValid(currentVersion) {
		return nil, fmt.Errorf("cannot compare versions %q and %q", current, latest.version())
	}

	result := &Result{Current: current, Latest: latest.version()}
	if semver.Compare(latestVersion, currentVersion) > 0 {
		result.Available = true
		result.Beta = latest.Prerelease
	}

	logrus.WithFields(logrus.Fields{
		"channel":   channel,
		"current":   current,
		"latest":    result.Latest,
		"available": result.Available,
		"beta":      result.Beta,
	}).Debug("Update check finished")

	return result, nil
}

// pickLatest takes the newest release; when it is not a prerelease, the next
// releases are scanned for a higher version.
func pickLatest(releases []Release) (Release, error) {
	if len(releases) == 0 {
		return Release{}, errors.New("no releases published")
	}

	latest := releases[0]
	if latest.Prerelease {
		return latest, nil
	}

	for i := 1; i <= extraReleases && i < len(releases); i++ {
		if semver.Compare(canonical(releases[i].version()), canonical(latest.version())) > 0 {
			return releases[i], nil
		}
	}
	return latest, nil
}

func (c *Checker) get(ctx context.Context, path string, out interface{}) error {
	url := strings.TrimRight(c.APIURL, "/") + "/repos/" + c.Repo + path

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/vnd.github+json")

	resp, err := c.Client.Do(req)
	if err != nil {
		return fmt.Errorf("failed to check for updates: %w", err)
	}
	defer resp.Body.Close()

	switch {
	case resp.StatusCode == http.StatusForbidden:
		return ErrRateLimited
	case resp.StatusCode != http.StatusOK:
		return fmt.Errorf("got non 200 status code (got: %d) when checking for updates", resp.StatusCode)
	}

	return json.NewDecoder(resp.Body).Decode(out)
}

func (r Release) version() string {
	if r.Name != "" {
		return r.Name
	}
	return r.TagName
}

func canonical(v string) string {
	v = strings.TrimSpace(v)
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}
