package util

import (
	"strings"

	"github.com/google/uuid"
	"sam-server/pkg/token"
)

// GenerateID returns a short random identifier such as "tbl_x8Zk2pQa"
func GenerateID(prefix string) string {
	id, err := token.Generate(8)
	if err != nil {
		id = strings.ReplaceAll(uuid.NewString(), "-", "")[:8]
	}

	return prefix + "_" + id
}
