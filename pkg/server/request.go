package server

import (
	"net/http"
	"net/url"
	"reflect"

	"github.com/gorilla/schema"
	"github.com/matst80/slask-facets/pkg/common/jsoncompat"
	"github.com/matst80/slask-facets/pkg/session"
	"github.com/matst80/slask-facets/pkg/types"
)

var decoder = newDecoder()

func newDecoder() *schema.Decoder {
	d := schema.NewDecoder()
	d.IgnoreUnknownKeys(true)
	d.RegisterConverter(types.FacetName(""), func(s string) reflect.Value {
		return reflect.ValueOf(types.FacetName(s))
	})
	return d
}

// decodeRequest fills dst from the query string on GET and from the json
// body otherwise.
func decodeRequest(r *http.Request, dst any) error {
	if r.Method == http.MethodGet {
		return decodeQuery(r.URL.Query(), dst)
	}
	return jsoncompat.DecodeReader(r.Body, dst)
}

func decodeQuery(query url.Values, dst any) error {
	return decoder.Decode(dst, query)
}

func ToggleFromRequest(r *http.Request) (session.FacetToggled, error) {
	var event session.FacetToggled
	if err := decodeRequest(r, &event); err != nil {
		return event, err
	}
	if _, err := types.ParseFacetName(string(event.Facet)); err != nil {
		return event, err
	}
	if event.Value == "" {
		return event, session.ErrEmptyValue
	}
	return event, nil
}

func LocationFromRequest(r *http.Request) (session.LocationChanged, error) {
	var event session.LocationChanged
	err := decodeRequest(r, &event)
	return event, err
}
