package view

// Paginate returns the records of page (1-based). A page outside
// [1, TotalPages] yields an empty slice.
func Paginate[T any](records []T, page, size int) []T {
	if size <= 0 || page < 1 {
		return []T{}
	}
	start := (page - 1) * size
	if start >= len(records) {
		return []T{}
	}
	end := min(start+size, len(records))
	return records[start:end:end]
}

// TotalPages is ceil(n/size).
func TotalPages(n, size int) int {
	if size <= 0 || n <= 0 {
		return 0
	}
	return (n + size - 1) / size
}
