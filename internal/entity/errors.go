package entity

import "errors"

var (
	// Generation errors
	ErrMissingCredential        = errors.New("missing API credential")
	ErrInvalidProviderSelection = errors.New("invalid image platform")
	ErrUnparseableModelResponse = errors.New("chat model response did not contain meme text and image prompt")
	ErrImageProviderFailure     = errors.New("image provider request failed")
	ErrFontAssetNotFound        = errors.New("font file not found")

	// Storage errors
	ErrMemeNotFound = errors.New("meme not found")
	ErrJobNotFound  = errors.New("job not found")

	// General errors
	ErrInvalidInput = errors.New("invalid input")
)
