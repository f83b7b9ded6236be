package device

import (
	"strings"
	"testing"
)

func TestMappingIsTotal(t *testing.T) {
	// Every variant either maps to exactly one repository, one strategy and
	// one asset tag, or is rejected everywhere. No variant may be half-mapped.
	for _, typ := range Types() {
		repo, repoErr := typ.Repository()
		strat, stratErr := typ.InstallStrategy()
		tag, hasTag := typ.AssetTag()

		switch typ {
		case TypeBridge6, TypeBridge4, TypeClick, TypeULoop:
			if repoErr != nil {
				t.Errorf("%s: expected repository, got error: %v", typ, repoErr)
			}
			if repo == "" {
				t.Errorf("%s: empty repository", typ)
			}
			if stratErr != nil {
				t.Errorf("%s: expected strategy, got error: %v", typ, stratErr)
			}
			if strat != StrategyDFU && strat != StrategyMassStorage {
				t.Errorf("%s: strategy %v is neither DFU nor mass-storage", typ, strat)
			}
			if !hasTag || tag == "" {
				t.Errorf("%s: expected asset tag", typ)
			}
			if tag != strings.ToLower(tag) {
				t.Errorf("%s: asset tag %q must be lower-case", typ, tag)
			}
		default:
			if repoErr == nil {
				t.Errorf("%s: expected UnsupportedError from Repository, got repo %q", typ, repo)
			}
			if !IsUnsupported(repoErr) {
				t.Errorf("%s: Repository error is not UnsupportedError: %v", typ, repoErr)
			}
			if stratErr == nil {
				t.Errorf("%s: expected UnsupportedError from InstallStrategy", typ)
			}
			if !IsUnsupported(stratErr) {
				t.Errorf("%s: InstallStrategy error is not UnsupportedError: %v", typ, stratErr)
			}
			if hasTag {
				t.Errorf("%s: bootloader/unknown types must not have an asset tag", typ)
			}
		}
	}
}

func TestStrategyAssignments(t *testing.T) {
	tests := []struct {
		typ  Type
		want Strategy
	}{
		{TypeBridge6, StrategyDFU},
		{TypeBridge4, StrategyDFU},
		{TypeClick, StrategyMassStorage},
		{TypeULoop, StrategyMassStorage},
	}

	for _, tt := range tests {
		got, err := tt.typ.InstallStrategy()
		if err != nil {
			t.Fatalf("%s: unexpected error: %v", tt.typ, err)
		}
		if got != tt.want {
			t.Errorf("%s: strategy = %v, want %v", tt.typ, got, tt.want)
		}
	}
}

func TestBridgeFamiliesShareRepository(t *testing.T) {
	repo6, err := TypeBridge6.Repository()
	if err != nil {
		t.Fatal(err)
	}
	repo4, err := TypeBridge4.Repository()
	if err != nil {
		t.Fatal(err)
	}
	if repo6 != repo4 {
		t.Errorf("Bridge6 repo %q != Bridge4 repo %q", repo6, repo4)
	}
}

func TestParseType(t *testing.T) {
	tests := []struct {
		in      string
		want    Type
		wantErr bool
	}{
		{"bridge6", TypeBridge6, false},
		{"Bridge6", TypeBridge6, false},
		{" uloop ", TypeULoop, false},
		{"CLICK", TypeClick, false},
		{"bridge4", TypeBridge4, false},
		{"bridge5", TypeUnknown, true},
		{"", TypeUnknown, true},
	}

	for _, tt := range tests {
		got, err := ParseType(tt.in)
		if tt.wantErr {
			if err == nil {
				t.Errorf("ParseType(%q): expected error", tt.in)
			}
			continue
		}
		if err != nil {
			t.Errorf("ParseType(%q): unexpected error: %v", tt.in, err)
			continue
		}
		if got != tt.want {
			t.Errorf("ParseType(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestUnsupportedErrorMessage(t *testing.T) {
	err := &UnsupportedError{Type: TypeRP2040Bootloader}

	if !strings.Contains(err.Error(), "no firmware releases") {
		t.Errorf("error message should explain the missing release channel, got: %s", err.Error())
	}
	if !strings.Contains(err.Error(), "RP2040 bootloader") {
		t.Errorf("error message should name the device class, got: %s", err.Error())
	}
}
