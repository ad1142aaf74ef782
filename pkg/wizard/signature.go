package wizard

import (
	"encoding/json"
	"sort"
	"strconv"
	"strings"
	"time"
)

// ComputeSearchSignature fingerprints the search-affecting inputs: the
// canonical keywords, every filter's enabled flag, and each filter's value
// only while enabled. The returned token is "<hash>:<unixnano>"; the salt
// makes every token unique so a commit always reads as a change. Callers
// that want equality must compare SignatureHash of two tokens.
func ComputeSearchSignature(s *Session) string {
	fields := map[string]interface{}{
		"keywords": normalizedKeywords(s.CanonicalKeywords),
	}
	addStringDim(fields, "location", s.Filters.Location)
	addStringDim(fields, "experience", s.Filters.Experience)
	addListDim(fields, "employment", s.Filters.Employment)
	addListDim(fields, "schedule", s.Filters.Schedule)
	addStringDim(fields, "metro", s.Filters.Metro)
	addListDim(fields, "labels", s.Filters.Labels)
	addStringDim(fields, "education", s.Filters.Education)
	addListDim(fields, "work_format", s.Filters.WorkFormat)
	addStringDim(fields, "ordering", s.Filters.Ordering)
	fields["salary.enabled"] = s.Filters.Salary.Enabled
	if s.Filters.Salary.Enabled {
		fields["salary.amount"] = s.Filters.Salary.Amount
		fields["salary.only_with_salary"] = s.Filters.Salary.OnlyWithSalary
	}
	fields["exact_phrase"] = s.Filters.ExactPhrase
	fields["search_in_title"] = s.Filters.SearchInTitle

	// map keys are sorted by encoding/json, so the serialization is
	// deterministic for equal input.
	raw, _ := json.Marshal(fields)
	hash := hash32(string(raw))
	return strconv.FormatInt(int64(hash), 10) + ":" + strconv.FormatInt(time.Now().UnixNano(), 10)
}

// SignatureHash strips the salt suffix from a search signature token. Two
// tokens describe the same search iff their hashes are equal.
func SignatureHash(token string) string {
	if i := strings.IndexByte(token, ':'); i >= 0 {
		return token[:i]
	}
	return token
}

// ComputeSaveSignature serializes every persistable field to a stable
// string: equal sessions yield byte-identical output, no salt. The
// auto-save coordinator compares these to decide whether a persistence
// call is needed.
func ComputeSaveSignature(s *Session) string {
	fields := map[string]interface{}{
		"keywords": normalizedKeywords(s.CanonicalKeywords),
		"filters":  s.Filters,
		"step":     int(s.Step),
		"index":    s.Results.Index,
	}
	raw, _ := json.Marshal(fields)
	return string(raw)
}

func normalizedKeywords(keywords []string) []string {
	out := make([]string, 0, len(keywords))
	for _, kw := range keywords {
		kw = strings.ToLower(strings.TrimSpace(kw))
		if kw != "" {
			out = append(out, kw)
		}
	}
	sort.Strings(out)
	return out
}

func addStringDim(fields map[string]interface{}, name string, f StringFilter) {
	fields[name+".enabled"] = f.Enabled
	if f.Enabled {
		fields[name+".value"] = f.Value
	}
}

func addListDim(fields map[string]interface{}, name string, f ListFilter) {
	fields[name+".enabled"] = f.Enabled
	if f.Enabled {
		values := append([]string(nil), f.Values...)
		sort.Strings(values)
		fields[name+".values"] = values
	}
}

// hash32 is the 32-bit rolling hash used for the search signature prefix:
// h = h*31 + ch, wrapped to signed 32 bits.
func hash32(s string) int32 {
	var h int32
	for _, ch := range s {
		h = h*31 + ch
	}
	return h
}
