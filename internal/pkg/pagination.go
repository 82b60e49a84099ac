package pkg

import (
	"regexp"
	"slices"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/tmsearch/internal/domain"
)

const (
	defaultPage     = 1
	defaultPageSize = 20
	maxPageSize     = 100
	defaultSort     = "id:desc"
)

// reservedParams are query keys consumed by ParsePageRequest itself.
var reservedParams = map[string]bool{
	"page":      true,
	"page_size": true,
	"sort":      true,
}

// filterOperators maps a key suffix to its SQL condition. Keys without a
// suffix are exact matches.
var filterOperators = []struct {
	suffix string
	cond   string
}{
	{"__like", " LIKE ?"},
	{"__gte", " >= ?"},
	{"__lte", " <= ?"},
}

var validFieldName = regexp.MustCompile(`^[a-zA-Z_][a-zA-Z0-9_]*$`)

// ParsePageRequest reads page, page_size, sort and filter parameters from the
// query string. page_size is clamped to [1, 100]; every other non-empty
// query key becomes a filter.
func ParsePageRequest(c *gin.Context) domain.PageRequest {
	page, err := strconv.Atoi(c.Query("page"))
	if err != nil || page < 1 {
		page = defaultPage
	}

	pageSize, err := strconv.Atoi(c.Query("page_size"))
	if err != nil || pageSize < 1 {
		pageSize = defaultPageSize
	}
	pageSize = min(pageSize, maxPageSize)

	filter := make(map[string]string)
	for key, values := range c.Request.URL.Query() {
		if !reservedParams[key] && len(values) > 0 && values[0] != "" {
			filter[key] = values[0]
		}
	}

	return domain.PageRequest{
		Page:     page,
		PageSize: pageSize,
		Sort:     c.DefaultQuery("sort", defaultSort),
		Filter:   filter,
	}
}

// Sort applies ORDER BY for a "field:asc|desc" sort string. Fields outside
// allowed, or that are not plain identifiers, are ignored.
func Sort(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		field, dir, ok := strings.Cut(req.Sort, ":")
		if !ok {
			return db
		}
		field = strings.TrimSpace(field)
		dir = strings.ToLower(strings.TrimSpace(dir))
		if (dir != "asc" && dir != "desc") || !allowedField(field, allowed) {
			return db
		}
		return db.Order(field + " " + dir)
	}
}

// Filter applies a WHERE condition per filter entry whose field is allowed.
// "field__like" matches a substring, "field__gte" and "field__lte" bound a
// range and a bare "field" is an exact match.
func Filter(req domain.PageRequest, allowed []string) func(db *gorm.DB) *gorm.DB {
	return func(db *gorm.DB) *gorm.DB {
		for key, value := range req.Filter {
			field, cond, arg := key, " = ?", any(value)
			for _, op := range filterOperators {
				if f, found := strings.CutSuffix(key, op.suffix); found {
					field, cond = f, op.cond
					if op.suffix == "__like" {
						arg = "%" + value + "%"
					}
					break
				}
			}
			if !allowedField(field, allowed) {
				continue
			}
			db = db.Where(field+cond, arg)
		}
		return db
	}
}

func allowedField(field string, allowed []string) bool {
	return validFieldName.MatchString(field) && slices.Contains(allowed, field)
}
