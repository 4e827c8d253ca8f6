package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestJob_Env(t *testing.T) {
	job := Job{
		Index:     2,
		Platform:  bsd,
		Toolchain: Beta,
		Extra:     map[string]string{"features": "full", "cross-version": "0.2.5"},
	}

	assert.Equal(t, []string{
		"MATRIX_OS_NAME=FreeBSD-x86_64",
		"MATRIX_RUNNER=ubuntu-22.04",
		"MATRIX_TARGET=x86_64-unknown-freebsd",
		"MATRIX_TOOLCHAIN=beta",
		"MATRIX_SKIP_TESTS=true",
		"MATRIX_CROSS_VERSION=0.2.5",
		"MATRIX_FEATURES=full",
	}, job.Env())
}

func TestJob_Slug(t *testing.T) {
	job := Job{Index: 7, Platform: Platform{OSName: "Linux x86_64 (musl)"}, Toolchain: Nightly}
	assert.Equal(t, "Linux_x86_64_musl-nightly-7", job.Slug())
}
