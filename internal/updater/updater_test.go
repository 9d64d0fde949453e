package updater

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
)

func TestParseSemver(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{"1.15.1", "1.15.1", false},
		{"v1.2.3", "1.2.3", false},
		{"1.16.0-beta2", "1.16.0-beta2", false},
		{"dev", "", true},
		{"1.x.0", "", true},
	}
	for _, tt := range tests {
		got, err := ParseSemver(tt.in)
		if (err != nil) != tt.wantErr {
			t.Errorf("ParseSemver(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			continue
		}
		if !tt.wantErr && got.String() != tt.want {
			t.Errorf("ParseSemver(%q) = %s, want %s", tt.in, got, tt.want)
		}
	}
}

func TestSemverLessThan(t *testing.T) {
	tests := []struct {
		a, b string
		want bool
	}{
		{"1.2.3", "1.2.4", true},
		{"1.2.3", "1.3.0", true},
		{"2.0.0", "1.9.9", false},
		{"1.2.3", "1.2.3", false},
		{"1.2.3-beta1", "1.2.3", true},
		{"1.2.3", "1.2.3-beta1", false},
		{"1.2.3-beta1", "1.2.3-beta2", true},
	}
	for _, tt := range tests {
		a, _ := ParseSemver(tt.a)
		b, _ := ParseSemver(tt.b)
		if got := a.LessThan(b); got != tt.want {
			t.Errorf("%s < %s = %v, want %v", tt.a, tt.b, got, tt.want)
		}
	}
}

func serve(t *testing.T, status int, body string) *Checker {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
		_, _ = w.Write([]byte(body))
	}))
	t.Cleanup(srv.Close)
	return &Checker{URL: srv.URL, Client: srv.Client()}
}

func TestCheck(t *testing.T) {
	tests := []struct {
		name    string
		status  int
		body    string
		current string
		want    bool
		wantErr bool
	}{
		{"newer release", 200, `{"tag_name":"1.16.0","html_url":"u"}`, "1.15.1", true, false},
		{"same release", 200, `{"tag_name":"1.15.1"}`, "1.15.1", false, false},
		{"prerelease ignored", 200, `{"tag_name":"1.16.0-beta1","prerelease":true}`, "1.15.1", false, false},
		{"no installed version", 200, `{"tag_name":"1.16.0","html_url":"u"}`, "", false, false},
		{"bad installed version", 200, `{"tag_name":"1.15.1"}`, "dev", false, true},
		{"no releases", 404, ``, "1.15.1", false, false},
		{"server error", 500, ``, "1.15.1", false, true},
		{"bad json", 200, `{`, "1.15.1", false, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := serve(t, tt.status, tt.body).Check(context.Background(), tt.current)
			if (err != nil) != tt.wantErr {
				t.Fatalf("error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && res.Available != tt.want {
				t.Errorf("Available = %v, want %v", res.Available, tt.want)
			}
		})
	}
}
