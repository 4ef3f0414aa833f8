package key

import (
	"errors"
	"testing"
)

func TestBuild(t *testing.T) {
	got, err := Build("volume", "int")
	if err != nil {
		t.Fatalf("Build() error = %v", err)
	}
	if want := "volume :1a3b5c7d9: int"; got != want {
		t.Errorf("Build() = %q, want %q", got, want)
	}
}

func TestBuild_InvalidName(t *testing.T) {
	tests := []string{"a:b", ":", "trailing:"}

	for _, name := range tests {
		_, err := Build(name, "string")
		if !errors.Is(err, ErrInvalidKeyName) {
			t.Errorf("Build(%q) error = %v, want ErrInvalidKeyName", name, err)
		}
	}
}

func TestMustBuild_Panics(t *testing.T) {
	defer func() {
		r := recover()
		if r == nil {
			t.Fatal("MustBuild did not panic")
		}
		err, ok := r.(error)
		if !ok || !errors.Is(err, ErrInvalidKeyName) {
			t.Errorf("panic value = %v, want ErrInvalidKeyName", r)
		}
	}()
	MustBuild("bad:name", "int")
}

func TestSplit(t *testing.T) {
	tests := []struct {
		composite string
		name      string
		typeName  string
		ok        bool
	}{
		{"volume :1a3b5c7d9: int", "volume", "int", true},
		{"title :1a3b5c7d9: string", "title", "string", true},
		{" :1a3b5c7d9: bool", "", "bool", true},
		{"no delimiter", "", "", false},
		{"x:y :1a3b5c7d9: int", "", "", false},
	}

	for _, tt := range tests {
		name, typeName, ok := Split(tt.composite)
		if name != tt.name || typeName != tt.typeName || ok != tt.ok {
			t.Errorf("Split(%q) = (%q, %q, %v), want (%q, %q, %v)",
				tt.composite, name, typeName, ok, tt.name, tt.typeName, tt.ok)
		}
	}
}

func TestSplit_RoundTrip(t *testing.T) {
	composite := MustBuild("window width", "uint16")
	name, typeName, ok := Split(composite)
	if !ok || name != "window width" || typeName != "uint16" {
		t.Errorf("Split(MustBuild()) = (%q, %q, %v)", name, typeName, ok)
	}
}

func TestCheck(t *testing.T) {
	if err := Check("plain name"); err != nil {
		t.Errorf("Check(plain name) = %v, want nil", err)
	}
	if err := Check(""); err != nil {
		t.Errorf("Check(\"\") = %v, want nil", err)
	}
	if err := Check("a:b"); !errors.Is(err, ErrInvalidKeyName) {
		t.Errorf("Check(a:b) = %v, want ErrInvalidKeyName", err)
	}
}
