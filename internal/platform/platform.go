// Package platform detects the host OS family, architecture, and which
// package managers are actually available on the search path.
package platform

// OSFamily is a closed classification of supported operating system families.
type OSFamily string

// Supported OS families. POSIX is the named fallback for hosts that match
// no other family; detection never invents a family from partial evidence.
const (
	OSDebian OSFamily = "debian"
	OSFedora OSFamily = "fedora"
	OSArch   OSFamily = "arch"
	OSDarwin OSFamily = "darwin"
	OSPOSIX  OSFamily = "posix"
)

// Arch is a closed classification of supported CPU architectures.
type Arch string

// Supported architectures. ArchUnknown is the named fallback.
const (
	ArchAMD64   Arch = "amd64"
	ArchARM64   Arch = "arm64"
	ArchUnknown Arch = "unknown"
)

// Manager identifies a package manager the engine can drive.
type Manager string

// Known package managers, native managers first.
const (
	ManagerApt    Manager = "apt"
	ManagerDnf    Manager = "dnf"
	ManagerPacman Manager = "pacman"
	ManagerBrew   Manager = "brew"
	ManagerNpm    Manager = "npm"
	ManagerPipx   Manager = "pipx"
	ManagerCargo  Manager = "cargo"
)

// Binary returns the invocation binary probed on the search path for m.
func (m Manager) Binary() string {
	if m == ManagerApt {
		return "apt-get"
	}
	return string(m)
}

// Platform describes the detected host environment.
type Platform struct {
	OS   OSFamily
	Arch Arch
	// Managers lists available package managers in preference order.
	Managers []Manager
	// Distro is the os-release ID ("ubuntu", "fedora"), or "macos" on Darwin.
	Distro string
	// Codename is the os-release VERSION_CODENAME when the distro publishes one.
	Codename string
}

// HasManager reports whether m was detected as available.
func (p Platform) HasManager(m Manager) bool {
	for _, candidate := range p.Managers {
		if candidate == m {
			return true
		}
	}
	return false
}
