package buildinfo

import (
	"strings"
	"testing"
)

func TestGet(t *testing.T) {
	i := Get()
	if i.Version != Version || i.Commit != Commit || i.Date != Date {
		t.Errorf("Get() = %+v, want package variables", i)
	}
	if !strings.HasPrefix(i.GoVersion, "go") && i.GoVersion != "devel" {
		t.Logf("GoVersion = %q", i.GoVersion)
	}
}

func TestTemplate(t *testing.T) {
	got := Template()
	if !strings.HasPrefix(got, "{{.Name}} "+Version) {
		t.Errorf("Template() = %q, want prefix %q", got, "{{.Name}} "+Version)
	}
}
