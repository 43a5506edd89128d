package messages

// Release messages for version oracle failures.
const (
	ReleaseResolutionErrFmt    = "resolve release metadata for %s: %v"
	ReleaseRateLimitErrFmt     = "release api rate limit exceeded (%s, remaining=%s)"
	ReleaseNoNetwork           = "network access disabled (TL_NO_NETWORK)"
	ReleaseMissingTag          = "latest release has no tag name"
	ReleaseCreateRequestErrFmt = "create release request: %w"
	ReleaseFetchErrFmt         = "fetch latest release: %w"
	ReleaseFetchStatusFmt      = "fetch latest release: unexpected status %s"
	ReleaseDecodeErrFmt        = "decode latest release: %w"

	ReleaseDownloadErrFmt    = "download %s: %w"
	ReleaseDownloadStatusFmt = "download: unexpected status %s from %s"
	ReleaseDownloadCreateFmt = "create %s: %w"
	ReleaseDownloadWriteFmt  = "write %s: %w"
)
