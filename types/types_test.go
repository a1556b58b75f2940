package types

import "testing"

func TestRequestValidate(t *testing.T) {
	valid := Request{Name: "hello", Version: LatestVersion, Series: "noble", Arch: "amd64"}
	if err := valid.Validate(); err != nil {
		t.Errorf("Validate() = %v, want nil", err)
	}

	cases := []struct {
		name string
		req  Request
	}{
		{"missing name", Request{Version: LatestVersion, Series: "noble", Arch: "amd64"}},
		{"missing version", Request{Name: "hello", Series: "noble", Arch: "amd64"}},
		{"missing series", Request{Name: "hello", Version: "latest", Arch: "amd64"}},
		{"missing arch", Request{Name: "hello", Version: "latest", Series: "noble"}},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if err := tc.req.Validate(); err == nil {
				t.Errorf("Validate() = nil, want error for %+v", tc.req)
			}
		})
	}
}

func TestRequestString(t *testing.T) {
	req := Request{Name: "hello", Version: "2.10-3", Series: "noble", Arch: "amd64"}
	want := "hello@2.10-3/noble/amd64"
	if got := req.String(); got != want {
		t.Errorf("String() = %q, want %q", got, want)
	}
}
