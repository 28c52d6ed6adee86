package qr

import "errors"

// Fatal errors are returned from Render. The others are recovered inside the
// engine and reported through Result.Warnings.
var (
	ErrInvalidOptions = errors.New("invalid render options")
	ErrInvalidMatrix  = errors.New("invalid matrix")
	ErrEncoding       = errors.New("payload cannot be encoded")

	ErrAssetMissing            = errors.New("logo asset missing")
	ErrOcclusionBudgetExceeded = errors.New("logo exceeds occlusion budget")
	ErrLogoNotAllowed          = errors.New("logo requires the highest error correction level")
	ErrLowContrast             = errors.New("insufficient contrast against background")
	ErrRenderDegraded          = errors.New("render degraded")
)
