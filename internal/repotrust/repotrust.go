// Package repotrust idempotently registers trusted package repositories:
// signing keyrings plus OS-family-specific source entries.
package repotrust

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/conn-castle/tool-layer/internal/messages"
	"github.com/conn-castle/tool-layer/internal/platform"
)

// Descriptor declares one trusted repository a recipe needs before its
// packages can be installed.
type Descriptor struct {
	// Name identifies the repository in errors and reports.
	Name string
	// KeyURL is where the signing key material is fetched from.
	KeyURL string
	// KeyringPath is the filesystem destination for the key material.
	KeyringPath string
	// SourceLineTemplate is the source entry with ${arch}, ${codename}, and
	// ${distro} tokens substituted at registration time.
	SourceLineTemplate string
	// SourcePath is the file the rendered source line is written to.
	SourcePath string
	// Families restricts registration to matching OS families; empty means all.
	Families []platform.OSFamily
}

// Validate rejects structurally incomplete descriptors.
func (d Descriptor) Validate() error {
	if strings.TrimSpace(d.Name) == "" {
		return errors.New(messages.RepoTrustDescriptorNameRequired)
	}
	if strings.TrimSpace(d.KeyURL) == "" {
		return fmt.Errorf(messages.RepoTrustKeyURLRequiredFmt, d.Name)
	}
	if strings.TrimSpace(d.KeyringPath) == "" {
		return fmt.Errorf(messages.RepoTrustKeyringPathRequiredFmt, d.Name)
	}
	if strings.TrimSpace(d.SourceLineTemplate) == "" || strings.TrimSpace(d.SourcePath) == "" {
		return fmt.Errorf(messages.RepoTrustSourceRequiredFmt, d.Name)
	}
	return nil
}

// Applies reports whether d targets the given OS family.
func (d Descriptor) Applies(family platform.OSFamily) bool {
	if len(d.Families) == 0 {
		return true
	}
	for _, candidate := range d.Families {
		if candidate == family {
			return true
		}
	}
	return false
}

// Status is the outcome of an Ensure call.
type Status string

// Ensure outcomes. StatusSkipped means the descriptor does not apply to the
// detected OS family.
const (
	StatusAlreadyPresent Status = "already_present"
	StatusRegistered     Status = "registered"
	StatusSkipped        Status = "skipped"
)

// KeyFetchError reports a failure to obtain key material. The key URL is
// included; credentials never are.
type KeyFetchError struct {
	Repository string
	Err        error
}

func (e *KeyFetchError) Error() string {
	return fmt.Sprintf(messages.RepoTrustKeyFetchErrFmt, e.Repository, e.Err)
}

func (e *KeyFetchError) Unwrap() error {
	return e.Err
}

// System abstracts the filesystem operations registration needs.
// This interface is intentionally package-local so unit tests can run
// against a scratch tree without shared global state.
type System interface {
	Stat(name string) (os.FileInfo, error)
	ReadFile(name string) ([]byte, error)
	MkdirAll(path string, perm os.FileMode) error
	WriteFile(name string, data []byte, perm os.FileMode) error
}

// RealSystem implements System using the OS filesystem.
type RealSystem struct{}

// Stat returns a FileInfo describing the named file.
func (RealSystem) Stat(name string) (os.FileInfo, error) {
	return os.Stat(name)
}

// ReadFile reads the named file and returns the contents.
func (RealSystem) ReadFile(name string) ([]byte, error) {
	return os.ReadFile(name)
}

// MkdirAll creates a directory named path, along with any necessary parents.
func (RealSystem) MkdirAll(path string, perm os.FileMode) error {
	return os.MkdirAll(path, perm)
}

// WriteFile writes data to the named file, creating it if necessary.
func (RealSystem) WriteFile(name string, data []byte, perm os.FileMode) error {
	return os.WriteFile(name, data, perm)
}

// Provisioner performs idempotent repository registration.
type Provisioner struct {
	sys        System
	httpClient *http.Client
}

// NewProvisioner returns a Provisioner using sys for filesystem access.
func NewProvisioner(sys System) *Provisioner {
	return &Provisioner{
		sys:        sys,
		httpClient: &http.Client{Timeout: 15 * time.Second},
	}
}

// Ensure registers the repository described by desc for plat.
//
// The presence check runs first: when the keyring file exists and the source
// file already contains the exact rendered source line, Ensure returns
// StatusAlreadyPresent with zero mutation: no network, no writes. This is
// what a second invocation with the same descriptor observes.
func (p *Provisioner) Ensure(ctx context.Context, desc Descriptor, plat platform.Platform) (Status, error) {
	if err := desc.Validate(); err != nil {
		return "", err
	}
	if !desc.Applies(plat.OS) {
		return StatusSkipped, nil
	}

	line := RenderSourceLine(desc.SourceLineTemplate, plat)
	if p.present(desc, line) {
		return StatusAlreadyPresent, nil
	}

	key, err := p.fetchKey(ctx, desc)
	if err != nil {
		return "", &KeyFetchError{Repository: desc.Name, Err: err}
	}
	if err := p.sys.MkdirAll(filepath.Dir(desc.KeyringPath), 0o755); err != nil {
		return "", fmt.Errorf(messages.RepoTrustWriteKeyringFmt, desc.KeyringPath, err)
	}
	if err := p.sys.WriteFile(desc.KeyringPath, key, 0o644); err != nil {
		return "", fmt.Errorf(messages.RepoTrustWriteKeyringFmt, desc.KeyringPath, err)
	}

	if err := p.sys.MkdirAll(filepath.Dir(desc.SourcePath), 0o755); err != nil {
		return "", fmt.Errorf(messages.RepoTrustWriteSourceFmt, desc.SourcePath, err)
	}
	if err := p.sys.WriteFile(desc.SourcePath, []byte(line+"\n"), 0o644); err != nil {
		return "", fmt.Errorf(messages.RepoTrustWriteSourceFmt, desc.SourcePath, err)
	}
	return StatusRegistered, nil
}

// present reports whether both the keyring and the exact source line exist.
func (p *Provisioner) present(desc Descriptor, line string) bool {
	if _, err := p.sys.Stat(desc.KeyringPath); err != nil {
		return false
	}
	data, err := p.sys.ReadFile(desc.SourcePath)
	if err != nil {
		return false
	}
	for _, existing := range strings.Split(string(data), "\n") {
		if strings.TrimSpace(existing) == line {
			return true
		}
	}
	return false
}

// fetchKey downloads the signing key material.
func (p *Provisioner) fetchKey(ctx context.Context, desc Descriptor) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, desc.KeyURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf(messages.RepoTrustKeyStatusFmt, resp.Status)
	}
	return io.ReadAll(resp.Body)
}

// RenderSourceLine substitutes ${arch}, ${codename}, and ${distro} tokens.
func RenderSourceLine(template string, plat platform.Platform) string {
	replacer := strings.NewReplacer(
		"${arch}", string(plat.Arch),
		"${codename}", plat.Codename,
		"${distro}", plat.Distro,
	)
	return strings.TrimSpace(replacer.Replace(template))
}
