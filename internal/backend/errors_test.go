package backend

import "testing"

func TestTranslateErrorBody(t *testing.T) {
	cases := []struct {
		name string
		body string
		want string
	}{
		{
			name: "flat message",
			body: `{"message": "Campaign budget exceeded"}`,
			want: "Campaign budget exceeded",
		},
		{
			name: "field map under message",
			body: `{"message": {"name": ["This field may not be blank."]}}`,
			want: "This field may not be blank.",
		},
		{
			name: "bare field map",
			body: `{"unit_rate": ["A valid number is required."]}`,
			want: "A valid number is required.",
		},
		{
			name: "first key in sorted order",
			body: `{"zeta": ["last"], "alpha": ["first"]}`,
			want: "first",
		},
		{
			name: "empty message",
			body: `{"message": ""}`,
			want: GenericErrorMessage,
		},
		{
			name: "not json",
			body: `<html>502 Bad Gateway</html>`,
			want: GenericErrorMessage,
		},
		{
			name: "empty object",
			body: `{}`,
			want: GenericErrorMessage,
		},
		{
			name: "non-string values",
			body: `{"code": 42}`,
			want: GenericErrorMessage,
		},
	}
	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			if got := translateErrorBody([]byte(c.body)); got != c.want {
				t.Fatalf("got %q, want %q", got, c.want)
			}
		})
	}
}
