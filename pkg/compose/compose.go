// Package compose builds the variable set sent with every webhook request.
//
// Sources are applied lowest to highest precedence:
//
//  1. accumulated session variables
//  2. variables declared by the step configuration
//  3. page context variables (query parameters)
//  4. variables declared on the triggering form
//  5. variables declared on the submitter or action button
package compose

import (
	"fmt"
	"net/url"
	"strings"

	"github.com/aretw0/formflow/pkg/chain"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/tidwall/gjson"
)

// Source names, used in error messages.
const (
	SourcePage      = "page context"
	SourceForm      = "form request_variables"
	SourceSubmitter = "submitter request_variables"
	SourceAction    = "action request_variables"
)

// Source is one layer of variables. Either Vars is set, or Raw holds a JSON object
// that is parsed during composition.
type Source struct {
	Name string
	Vars map[string]any
	Raw  string
}

// Mapping wraps an already decoded mapping.
func Mapping(name string, vars map[string]any) Source {
	return Source{Name: name, Vars: vars}
}

// Declared wraps a raw JSON declaration.
func Declared(name, raw string) Source {
	return Source{Name: name, Raw: raw}
}

// Compose merges sources left to right. A source whose raw declaration is not a JSON
// object fails the whole composition.
func Compose(sources ...Source) (map[string]any, error) {
	layers := make([]map[string]any, 0, len(sources))
	for _, src := range sources {
		vars, err := src.resolve()
		if err != nil {
			return nil, err
		}
		layers = append(layers, vars)
	}
	return chain.Merge(layers...), nil
}

func (s Source) resolve() (map[string]any, error) {
	if s.Vars != nil || strings.TrimSpace(s.Raw) == "" {
		return s.Vars, nil
	}
	return ParseDeclaration(s.Name, s.Raw)
}

// ParseDeclaration decodes a raw JSON object. Blank input yields no variables.
func ParseDeclaration(name, raw string) (map[string]any, error) {
	if strings.TrimSpace(raw) == "" {
		return nil, nil
	}
	if !gjson.Valid(raw) {
		return nil, fmt.Errorf("%w in %s", domain.ErrInvalidVariableJSON, name)
	}
	res := gjson.Parse(raw)
	if !res.IsObject() {
		return nil, fmt.Errorf("%w in %s: expected an object, got %s",
			domain.ErrInvalidVariableJSON, name, res.Type)
	}
	vars, _ := res.Value().(map[string]any)
	return vars, nil
}

// PageVariables exposes the page's query parameters as string variables.
func PageVariables(query url.Values) map[string]any {
	vars := make(map[string]any, len(query))
	for key := range query {
		vars[key] = query.Get(key)
	}
	return vars
}

// AliasLookupID copies casting_id to lookup_id when vars has no lookup_id yet.
func AliasLookupID(vars map[string]any) map[string]any {
	if id, ok := vars[domain.KeyCastingID]; ok {
		if _, set := vars[domain.KeyLookupID]; !set {
			vars[domain.KeyLookupID] = id
		}
	}
	return vars
}
