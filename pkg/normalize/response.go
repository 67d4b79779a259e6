package normalize

import (
	"github.com/aretw0/formflow/pkg/chain"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/tidwall/gjson"
)

var emptyObject = gjson.Parse("{}")

// Parse normalizes a raw webhook body.
func Parse(body []byte) domain.Response {
	obj := Unwrap(body)
	resp := domain.Response{Variables: Variables(obj)}

	if next := obj.Get(domain.KeyNextStep); next.Type == gjson.String && next.Str != "" {
		resp.NextStep = next.Str
	}
	if form := obj.Get(domain.KeyForm); form.IsObject() {
		resp.Form = Scalars(form)
		resp.HasForm = true
	}
	return resp
}

// Unwrap returns the working object of a body: the first element of a list, then the
// "json" property of an envelope. Anything that is not an object becomes {}.
func Unwrap(body []byte) gjson.Result {
	if !gjson.ValidBytes(body) {
		return emptyObject
	}
	working := gjson.ParseBytes(body)
	working = chain.Try[gjson.Result, gjson.Result](working, firstElement, passThrough).Value
	working = chain.Try[gjson.Result, gjson.Result](working, jsonEnvelope, passThrough).Value
	if !working.IsObject() {
		return emptyObject
	}
	return working
}

func firstElement(r gjson.Result) chain.Result[gjson.Result] {
	if !r.IsArray() {
		return chain.NoMatch[gjson.Result]()
	}
	items := r.Array()
	if len(items) == 0 {
		return chain.Matched(emptyObject)
	}
	return chain.Matched(items[0])
}

func jsonEnvelope(r gjson.Result) chain.Result[gjson.Result] {
	if !r.IsObject() {
		return chain.NoMatch[gjson.Result]()
	}
	if inner := r.Get(domain.KeyJSON); inner.Exists() {
		return chain.Matched(inner)
	}
	return chain.NoMatch[gjson.Result]()
}

func passThrough(r gjson.Result) chain.Result[gjson.Result] {
	return chain.Matched(r)
}

// Variables extracts the flat variable mapping of an unwrapped object.
func Variables(obj gjson.Result) map[string]any {
	res := chain.Try[gjson.Result, map[string]any](obj, explicitVariables, messageVariables, topLevelVariables)
	if !res.Matched || res.Value == nil {
		return make(map[string]any)
	}
	return res.Value
}

func explicitVariables(obj gjson.Result) chain.Result[map[string]any] {
	vars := obj.Get(domain.KeyVariables)
	if !vars.IsObject() {
		return chain.NoMatch[map[string]any]()
	}
	m, _ := vars.Value().(map[string]any)
	return chain.Matched(m)
}

func messageVariables(obj gjson.Result) chain.Result[map[string]any] {
	vars := obj.Get(domain.KeyVariables)
	if vars.Type != gjson.String {
		return chain.NoMatch[map[string]any]()
	}
	out := map[string]any{domain.KeyMessage: vars.Str}
	collectTopLevel(obj, out)
	return chain.Matched(out)
}

func topLevelVariables(obj gjson.Result) chain.Result[map[string]any] {
	if !obj.IsObject() {
		return chain.NoMatch[map[string]any]()
	}
	out := make(map[string]any)
	collectTopLevel(obj, out)
	return chain.Matched(out)
}

func collectTopLevel(obj gjson.Result, out map[string]any) {
	obj.ForEach(func(key, value gjson.Result) bool {
		switch key.Str {
		case domain.KeyNextStep, domain.KeyVariables:
		default:
			out[key.Str] = value.Value()
		}
		return true
	})
}

// Scalars flattens an object's scalar members to strings; nested values are skipped.
func Scalars(obj gjson.Result) map[string]string {
	out := make(map[string]string)
	obj.ForEach(func(key, value gjson.Result) bool {
		if value.IsObject() || value.IsArray() {
			return true
		}
		if value.Type == gjson.Null {
			out[key.Str] = ""
			return true
		}
		out[key.Str] = value.String()
		return true
	})
	return out
}
