package middleware

import "testing"

func TestIdempotencyCacheKey_ScopedToEndpoint(t *testing.T) {
	t.Parallel()

	// The same header value on different endpoints must never share a
	// stored response.
	base := idempotencyCacheKey("POST", "/v1/rides", "abc")
	cases := []struct {
		name   string
		method string
		path   string
	}{
		{"different method", "PUT", "/v1/rides"},
		{"different path", "POST", "/v1/users/register"},
		{"different operation on same ride", "PUT", "/v1/rides/r1/accept"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := idempotencyCacheKey(tc.method, tc.path, "abc"); got == base {
				t.Errorf("key %q collides with %q", got, base)
			}
		})
	}

	if a, b := idempotencyCacheKey("POST", "/v1/rides", "abc"), idempotencyCacheKey("POST", "/v1/rides", "abc"); a != b {
		t.Errorf("identical requests must share a key: %q vs %q", a, b)
	}
}
