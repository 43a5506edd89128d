package platform

import (
	"errors"
	"testing"
)

type fakeSystem struct {
	goos      string
	goarch    string
	osRelease string
	binaries  map[string]string
}

func (f fakeSystem) GOOS() string {
	return f.goos
}

func (f fakeSystem) GOARCH() string {
	return f.goarch
}

func (f fakeSystem) ReadFile(name string) ([]byte, error) {
	if name == osReleasePath && f.osRelease != "" {
		return []byte(f.osRelease), nil
	}
	return nil, errors.New("no such file")
}

func (f fakeSystem) LookPath(file string) (string, error) {
	if path, ok := f.binaries[file]; ok {
		return path, nil
	}
	return "", errors.New("not found")
}

func TestDetectDebian(t *testing.T) {
	sys := fakeSystem{
		goos:   "linux",
		goarch: "amd64",
		osRelease: "ID=ubuntu\nID_LIKE=debian\nVERSION_CODENAME=noble\n",
		binaries: map[string]string{
			"apt-get": "/usr/bin/apt-get",
			"npm":     "/usr/bin/npm",
		},
	}

	plat := Detect(sys)
	if plat.OS != OSDebian {
		t.Fatalf("expected debian family, got %s", plat.OS)
	}
	if plat.Arch != ArchAMD64 {
		t.Fatalf("expected amd64, got %s", plat.Arch)
	}
	if plat.Codename != "noble" {
		t.Fatalf("expected codename noble, got %q", plat.Codename)
	}
	if len(plat.Managers) != 2 || plat.Managers[0] != ManagerApt || plat.Managers[1] != ManagerNpm {
		t.Fatalf("expected [apt npm] in preference order, got %v", plat.Managers)
	}
}

func TestDetectDarwinSkipsOSRelease(t *testing.T) {
	sys := fakeSystem{
		goos:     "darwin",
		goarch:   "arm64",
		binaries: map[string]string{"brew": "/opt/homebrew/bin/brew"},
	}

	plat := Detect(sys)
	if plat.OS != OSDarwin {
		t.Fatalf("expected darwin family, got %s", plat.OS)
	}
	if plat.Distro != "macos" {
		t.Fatalf("expected macos distro, got %q", plat.Distro)
	}
	if !plat.HasManager(ManagerBrew) {
		t.Fatalf("expected brew available, got %v", plat.Managers)
	}
}

func TestDetectUnknownHostFallsBack(t *testing.T) {
	plat := Detect(fakeSystem{goos: "linux", goarch: "riscv64"})
	if plat.OS != OSPOSIX {
		t.Fatalf("expected posix fallback, got %s", plat.OS)
	}
	if plat.Arch != ArchUnknown {
		t.Fatalf("expected unknown arch, got %s", plat.Arch)
	}
	if len(plat.Managers) != 0 {
		t.Fatalf("expected no managers, got %v", plat.Managers)
	}
}

func TestClassifyOSIDLike(t *testing.T) {
	cases := []struct {
		id     string
		idLike string
		want   OSFamily
	}{
		{"ubuntu", "debian", OSDebian},
		{"debian", "", OSDebian},
		{"fedora", "", OSFedora},
		{"centos", "rhel fedora", OSFedora},
		{"manjaro", "arch", OSArch},
		{"alpine", "", OSPOSIX},
		{"", "", OSPOSIX},
	}
	for _, tc := range cases {
		if got := ClassifyOS("linux", tc.id, tc.idLike); got != tc.want {
			t.Fatalf("ClassifyOS(%q, %q) = %s, want %s", tc.id, tc.idLike, got, tc.want)
		}
	}
}

func TestParseOSReleaseQuoting(t *testing.T) {
	fields := parseOSRelease("# comment\nID=\"ubuntu\"\nPRETTY_NAME='Ubuntu 24.04'\nbroken line\n")
	if fields["ID"] != "ubuntu" {
		t.Fatalf("expected unquoted ubuntu, got %q", fields["ID"])
	}
	if fields["PRETTY_NAME"] != "Ubuntu 24.04" {
		t.Fatalf("expected unquoted pretty name, got %q", fields["PRETTY_NAME"])
	}
	if _, ok := fields["broken line"]; ok {
		t.Fatalf("malformed line should be skipped")
	}
}

func TestManagerBinary(t *testing.T) {
	if ManagerApt.Binary() != "apt-get" {
		t.Fatalf("apt should probe apt-get")
	}
	if ManagerBrew.Binary() != "brew" {
		t.Fatalf("brew should probe brew")
	}
}
