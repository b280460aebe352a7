package database

import (
	"strings"
	"testing"
)

func TestDSN(t *testing.T) {
	got := dsn("walker", "secret", "db.local", "3306", "airowalk")
	want := "walker:secret@tcp(db.local:3306)/airowalk?" +
		"charset=utf8mb4&parseTime=true&loc=UTC&timeout=5s&readTimeout=5s&writeTimeout=5s"
	if got != want {
		t.Fatalf("dsn() = %q, want %q", got, want)
	}
}

func TestDSNEmptyPassword(t *testing.T) {
	got := dsn("root", "", "localhost", "3306", "airowalk")
	if !strings.HasPrefix(got, "root@tcp(") {
		t.Fatalf("dsn() = %q, want no colon before @ when the password is empty", got)
	}
}
