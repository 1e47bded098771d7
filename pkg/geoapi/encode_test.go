package geoapi_test

import (
	"testing"

	"github.com/manzanit0/geoapi/pkg/geoapi"
)

func TestEncode(t *testing.T) {
	testCases := []struct {
		desc string
		args geoapi.Args
		want string
	}{
		{
			desc: "sequences are joined with commas into a single key",
			args: geoapi.Args{"param": []int{1, 2, 3}},
			want: "param=1%2C2%2C3",
		},
		{
			desc: "string sequences are joined too",
			args: geoapi.Args{"type": []string{"city", "business"}},
			want: "type=city%2Cbusiness",
		},
		{
			desc: "booleans are lowercased",
			args: geoapi.Args{"param": true, "other": false},
			want: "other=false&param=true",
		},
		{
			desc: "floats are not written in scientific notation",
			args: geoapi.Args{"lat": 42.3601, "lon": 0.0000001},
			want: "lat=42.3601&lon=0.0000001",
		},
		{
			desc: "non ascii text keeps its utf-8 bytes",
			args: geoapi.Args{"q": "São Paulo"},
			want: "q=S%C3%A3o+Paulo",
		},
		{
			desc: "integers are stringified",
			args: geoapi.Args{"limit": 5},
			want: "limit=5",
		},
		{
			desc: "empty arguments produce an empty query",
			args: geoapi.Args{},
			want: "",
		},
	}
	for _, tC := range testCases {
		t.Run(tC.desc, func(t *testing.T) {
			got, err := geoapi.Encode(tC.args)
			if err != nil {
				t.Fatalf("unexpected error: %s", err)
			}

			if got != tC.want {
				t.Errorf("got %s, expected %s", got, tC.want)
			}
		})
	}
}
