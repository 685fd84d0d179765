package utils

const (
	defaultPageSize = 20
	maxPageSize     = 100
)

// GetPaginationParams normalizes optional offset/limit query values into a
// usable window. Missing or negative offsets start from zero; the limit
// falls back to the default page size and is capped at the maximum.
func GetPaginationParams(offset, limit *int) (int, int) {
	off := 0
	if offset != nil && *offset > 0 {
		off = *offset
	}

	size := defaultPageSize
	if limit != nil && *limit > 0 {
		size = *limit
		if size > maxPageSize {
			size = maxPageSize
		}
	}

	return off, size
}
