package compiler

import (
	"strings"
	"testing"

	"github.com/zeozeozeo/drakkar/internal/discover"
)

func TestDriverSelection(t *testing.T) {
	o := Options{}
	if o.Driver(discover.C) != "gcc" {
		t.Fatalf("expected gcc for C")
	}
	if o.Driver(discover.CPP) != "g++" {
		t.Fatalf("expected g++ for CPP")
	}
}

func TestDriverOverride(t *testing.T) {
	o := Options{GCCPath: "/opt/gcc-13", GPPPath: "/opt/g++-13"}
	if o.Driver(discover.C) != "/opt/gcc-13" {
		t.Fatalf("expected overridden gcc path")
	}
	if o.Driver(discover.CPP) != "/opt/g++-13" {
		t.Fatalf("expected overridden g++ path")
	}
}

func TestCompileArgsDebugProfile(t *testing.T) {
	tu := discover.TranslationUnit{
		SourcePath: "src/main.c",
		Language:   discover.C,
		ObjectPath: "target/main.o",
		DepPath:    "target/main.d",
	}
	o := Options{Profile: Debug, CStandard: "c11", CFlags: []string{"-Wall"}}
	args := CompileArgs(o, tu)
	line := strings.Join(args, " ")

	for _, want := range []string{"-std=c11", "-O0", "-g", "-Wall", "-MMD", "-MP", "-MF target/main.d", "-c", "-o target/main.o src/main.c"} {
		if !strings.Contains(line, want) {
			t.Fatalf("expected %q in %q", want, line)
		}
	}
	stdIdx := strings.Index(line, "-std=c11")
	profIdx := strings.Index(line, "-O0")
	userIdx := strings.Index(line, "-Wall")
	depIdx := strings.Index(line, "-MMD")
	tailIdx := strings.Index(line, "-c -o")
	if !(stdIdx < profIdx && profIdx < userIdx && userIdx < depIdx && depIdx < tailIdx) {
		t.Fatalf("unexpected flag ordering: %q", line)
	}
}

func TestCompileArgsReleaseProfile(t *testing.T) {
	tu := discover.TranslationUnit{SourcePath: "a.cpp", ObjectPath: "t/a.o", DepPath: "t/a.d", Language: discover.CPP}
	o := Options{Profile: Release, CxxStandard: "c++20"}
	args := CompileArgs(o, tu)
	line := strings.Join(args, " ")
	if !strings.Contains(line, "-std=c++20") || !strings.Contains(line, "-O2") || !strings.Contains(line, "-DNDEBUG") {
		t.Fatalf("missing release flags: %q", line)
	}
}

func TestCompileArgsExtraFlagsAppendedLast(t *testing.T) {
	tu := discover.TranslationUnit{SourcePath: "a.c", ObjectPath: "t/a.o", DepPath: "t/a.d", Language: discover.C}
	o := Options{ExtraFlags: []string{"-DFOO"}}
	args := CompileArgs(o, tu)
	if args[len(args)-1] != "-DFOO" {
		t.Fatalf("expected extra flags last, got %v", args)
	}
}

func TestLinkArgsOrder(t *testing.T) {
	o := Options{LdFlags: []string{"-Wl,-rpath,./lib"}, LinkLibs: []string{"-lm"}, Profile: Release}
	args := LinkArgs(o, []string{"a.o", "b.o"}, "out/app")
	line := strings.Join(args, " ")
	if !strings.HasPrefix(line, "a.o b.o") {
		t.Fatalf("expected object files first: %q", line)
	}
	if !strings.Contains(line, "-Wl,-rpath,./lib") {
		t.Fatalf("expected ld_flags: %q", line)
	}
	if !strings.Contains(line, "-lm") {
		t.Fatalf("expected link libs: %q", line)
	}
	if !strings.Contains(line, "-s") {
		t.Fatalf("expected release strip flag: %q", line)
	}
	if !strings.HasSuffix(strings.TrimSpace(line), "out/app") && !strings.Contains(line, "-o out/app") {
		t.Fatalf("expected output path: %q", line)
	}
}

func TestLinkArgsDebugOmitsStrip(t *testing.T) {
	o := Options{Profile: Debug}
	args := LinkArgs(o, []string{"a.o"}, "out/app")
	for _, a := range args {
		if a == "-s" {
			t.Fatalf("did not expect strip flag in debug profile")
		}
	}
}

func TestLinkDriverPrefersCxx(t *testing.T) {
	o := Options{}
	units := []discover.TranslationUnit{
		{Language: discover.C},
		{Language: discover.CPP},
	}
	if LinkDriver(o, units) != "g++" {
		t.Fatalf("expected g++ when any unit is C++")
	}
	if LinkDriver(o, units[:1]) != "gcc" {
		t.Fatalf("expected gcc when all units are C")
	}
}

func TestFingerprintDeterministic(t *testing.T) {
	a := Fingerprint("gcc", []string{"-O0", "-c", "main.c"})
	b := Fingerprint("gcc", []string{"-O0", "-c", "main.c"})
	if a != b {
		t.Fatalf("expected identical fingerprints for identical input")
	}
	c := Fingerprint("gcc", []string{"-O2", "-c", "main.c"})
	if a == c {
		t.Fatalf("expected different fingerprints for different flags")
	}
}
