package normalize

import (
	"github.com/aretw0/formflow/pkg/chain"
	"github.com/aretw0/formflow/pkg/domain"
	"github.com/tidwall/gjson"
)

// titleCandidates are searched in order when no nested Titles.titles list exists.
var titleCandidates = []string{"titles", "archive_titles", "items", "entries", "results"}

// entryCandidates name the fields an archive selection answer may nest its entry under.
var entryCandidates = []string{"entry", "casting", "data", "details"}

// FindTitles locates the archive list of an unwrapped object. The dedicated nested
// Titles.titles field takes priority over the general-purpose candidates.
func FindTitles(obj gjson.Result) []gjson.Result {
	res := chain.Try[gjson.Result, []gjson.Result](obj, nestedTitles, candidateTitles)
	if !res.Matched {
		return nil
	}
	return res.Value
}

func nestedTitles(obj gjson.Result) chain.Result[[]gjson.Result] {
	list := obj.Get("Titles").Get("titles")
	if !list.IsArray() {
		return chain.NoMatch[[]gjson.Result]()
	}
	return chain.Matched(list.Array())
}

func candidateTitles(obj gjson.Result) chain.Result[[]gjson.Result] {
	for _, name := range titleCandidates {
		if list := obj.Get(name); list.IsArray() {
			return chain.Matched(list.Array())
		}
	}
	return chain.NoMatch[[]gjson.Result]()
}

// NormalizeTitle converts one archive list entry into a Title.
func NormalizeTitle(item gjson.Result) domain.Title {
	switch {
	case item.Type == gjson.String:
		return domain.Title{Title: item.Str, ID: item.Str}
	case item.IsObject():
		title, ok := firstTruthy(item, "title", "name", "label", "id")
		if !ok {
			title = domain.UntitledSentinel
		}
		id, ok := firstTruthy(item, "id", "title")
		if !ok {
			id = title
		}
		subtitle, _ := firstTruthy(item, "subtitle", "sub_title", "subTitle")
		raw, _ := item.Value().(map[string]any)
		return domain.Title{Title: title, ID: id, Subtitle: subtitle, Raw: raw}
	default:
		return domain.Title{Title: domain.UntitledSentinel, ID: item.Raw}
	}
}

// NormalizeTitles normalizes every entry of list.
func NormalizeTitles(list []gjson.Result) []domain.Title {
	out := make([]domain.Title, 0, len(list))
	for _, item := range list {
		out = append(out, NormalizeTitle(item))
	}
	return out
}

// ExtractEntry returns the entry nested in an archive selection answer, or the object itself.
func ExtractEntry(obj gjson.Result) gjson.Result {
	for _, name := range entryCandidates {
		if v := obj.Get(name); truthy(v) {
			return v
		}
	}
	return obj
}

func firstTruthy(obj gjson.Result, fields ...string) (string, bool) {
	for _, f := range fields {
		if v := obj.Get(f); truthy(v) {
			return v.String(), true
		}
	}
	return "", false
}

func truthy(v gjson.Result) bool {
	switch v.Type {
	case gjson.String:
		return v.Str != ""
	case gjson.Number:
		return v.Num != 0
	case gjson.True, gjson.JSON:
		return true
	default:
		return false
	}
}
