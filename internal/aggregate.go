package internal

import "sort"

// ScanReport is the final result of a run. Built once, read-only afterward.
type ScanReport struct {
	Results           []Match            `json:"results"`
	Aggregated        map[string][]Match `json:"aggregated"`
	ModInfo           map[string]string  `json:"mod_info"`
	TotalFilesScanned int                `json:"total_files_scanned"`
	TotalMatches      int                `json:"total_matches"`
}

// Aggregate groups matches by key name into insertion-ordered buckets and
// records every discovered mod, matches or not. filesScanned is the number
// of files actually opened and decoded.
func Aggregate(matches []Match, mods []ModEntry, filesScanned int) *ScanReport {
	if matches == nil {
		matches = []Match{}
	}
	report := &ScanReport{
		Results:           matches,
		Aggregated:        make(map[string][]Match),
		ModInfo:           make(map[string]string, len(mods)),
		TotalFilesScanned: filesScanned,
		TotalMatches:      len(matches),
	}
	for _, m := range matches {
		report.Aggregated[m.KeyName] = append(report.Aggregated[m.KeyName], m)
	}
	for _, e := range mods {
		report.ModInfo[e.Root] = e.Name
	}
	return report
}

// Conflicts returns the key names whose matches come from two or more
// distinct mods, sorted alphabetically.
func (r *ScanReport) Conflicts() []string {
	var keys []string
	for key, bucket := range r.Aggregated {
		seen := make(map[string]struct{}, 2)
		for _, m := range bucket {
			seen[m.ModName] = struct{}{}
		}
		if len(seen) >= 2 {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)
	return keys
}

// ConflictMods returns the distinct mod names contributing to a key's
// bucket, in first-appearance order.
func (r *ScanReport) ConflictMods(key string) []string {
	var mods []string
	seen := make(map[string]struct{})
	for _, m := range r.Aggregated[key] {
		if _, ok := seen[m.ModName]; ok {
			continue
		}
		seen[m.ModName] = struct{}{}
		mods = append(mods, m.ModName)
	}
	return mods
}

// Keys returns all aggregated key names sorted alphabetically.
func (r *ScanReport) Keys() []string {
	keys := make([]string, 0, len(r.Aggregated))
	for key := range r.Aggregated {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}
