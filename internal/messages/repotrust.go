package messages

// Repository trust messages for keyring and source-entry provisioning.
const (
	RepoTrustKeyFetchErrFmt         = "fetch signing key for %s: %v"
	RepoTrustKeyStatusFmt           = "fetch signing key: unexpected status %s"
	RepoTrustWriteKeyringFmt        = "write keyring %s: %w"
	RepoTrustWriteSourceFmt         = "write source entry %s: %w"
	RepoTrustDescriptorNameRequired = "repository descriptor name is required"
	RepoTrustKeyURLRequiredFmt      = "repository %s: key_url is required"
	RepoTrustKeyringPathRequiredFmt = "repository %s: keyring_path is required"
	RepoTrustSourceRequiredFmt      = "repository %s: source line and source path are required"
)
