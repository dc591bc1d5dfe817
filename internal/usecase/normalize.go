package usecase

import (
	"math"
	"slices"
	"strconv"
	"strings"
)

// parseStatInt reads provider stat values such as "54%", "12", "7.0" or
// "" and returns 0 for anything it cannot read.
func parseStatInt(raw string) int {
	value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if value == "" || strings.EqualFold(value, "null") {
		return 0
	}
	if n, err := strconv.Atoi(value); err == nil {
		return n
	}
	if f, err := strconv.ParseFloat(value, 64); err == nil && !math.IsNaN(f) && !math.IsInf(f, 0) {
		return int(f)
	}
	return 0
}

func parseStatFloat(raw string) float64 {
	value := strings.TrimSpace(strings.TrimSuffix(strings.TrimSpace(raw), "%"))
	if value == "" {
		return 0
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

// parseRating returns nil when the provider has not rated the player.
func parseRating(raw string) *float64 {
	value := strings.TrimSpace(raw)
	if value == "" || strings.EqualFold(value, "null") {
		return nil
	}
	f, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil
	}
	return &f
}

func intOrZero(v *int) int {
	if v == nil {
		return 0
	}
	return *v
}

// uniquePositiveIDs drops non-positive ids and duplicates, keeping order.
func uniquePositiveIDs(ids []int64) []int64 {
	out := make([]int64, 0, len(ids))
	for _, id := range ids {
		if id <= 0 || slices.Contains(out, id) {
			continue
		}
		out = append(out, id)
	}
	return out
}

func chunkIDs(ids []int64, size int) [][]int64 {
	if size <= 0 {
		size = len(ids)
	}
	out := make([][]int64, 0, (len(ids)+size-1)/max(size, 1))
	for start := 0; start < len(ids); start += size {
		end := min(start+size, len(ids))
		out = append(out, ids[start:end])
	}
	return out
}
