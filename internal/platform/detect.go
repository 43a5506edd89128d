package platform

import "strings"

const osReleasePath = "/etc/os-release"

// managerPreference lists the probing order per OS family: the family's
// native manager first, then cross-family managers.
var managerPreference = map[OSFamily][]Manager{
	OSDebian: {ManagerApt, ManagerBrew, ManagerNpm, ManagerPipx, ManagerCargo},
	OSFedora: {ManagerDnf, ManagerBrew, ManagerNpm, ManagerPipx, ManagerCargo},
	OSArch:   {ManagerPacman, ManagerBrew, ManagerNpm, ManagerPipx, ManagerCargo},
	OSDarwin: {ManagerBrew, ManagerNpm, ManagerPipx, ManagerCargo},
	OSPOSIX:  {ManagerBrew, ManagerNpm, ManagerPipx, ManagerCargo},
}

// Detect inspects the host and returns its Platform. Detection never fails:
// an unclassifiable host falls back to the POSIX family, an unknown CPU to
// ArchUnknown, and an empty manager list is a valid result.
func Detect(sys System) Platform {
	fields := map[string]string{}
	if sys.GOOS() != "darwin" {
		if data, err := sys.ReadFile(osReleasePath); err == nil {
			fields = parseOSRelease(string(data))
		}
	}

	family := ClassifyOS(sys.GOOS(), fields["ID"], fields["ID_LIKE"])
	plat := Platform{
		OS:       family,
		Arch:     ClassifyArch(sys.GOARCH()),
		Distro:   fields["ID"],
		Codename: fields["VERSION_CODENAME"],
	}
	if family == OSDarwin {
		plat.Distro = "macos"
	}

	for _, manager := range managerPreference[family] {
		if _, err := sys.LookPath(manager.Binary()); err == nil {
			plat.Managers = append(plat.Managers, manager)
		}
	}
	return plat
}

// ClassifyOS maps GOOS plus os-release identity fields onto an OSFamily.
// Hosts that match no family classify as POSIX, never as a guessed family.
func ClassifyOS(goos string, id string, idLike string) OSFamily {
	if goos == "darwin" {
		return OSDarwin
	}
	ids := append([]string{strings.ToLower(id)}, strings.Fields(strings.ToLower(idLike))...)
	for _, candidate := range ids {
		switch candidate {
		case "debian", "ubuntu":
			return OSDebian
		case "fedora", "rhel", "centos":
			return OSFedora
		case "arch", "archlinux":
			return OSArch
		}
	}
	return OSPOSIX
}

// ClassifyArch maps GOARCH onto the closed Arch enumeration.
func ClassifyArch(goarch string) Arch {
	switch goarch {
	case "amd64":
		return ArchAMD64
	case "arm64":
		return ArchARM64
	}
	return ArchUnknown
}

// parseOSRelease extracts KEY=value pairs from os-release content.
// Values may be quoted; comments and malformed lines are skipped.
func parseOSRelease(content string) map[string]string {
	fields := make(map[string]string)
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		value = strings.Trim(value, `"'`)
		fields[strings.TrimSpace(key)] = value
	}
	return fields
}
