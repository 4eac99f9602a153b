// Copyright (c) 2026 Tahmin. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package convert

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestToInt(t *testing.T) {
	assert.Equal(t, 203, ToInt("203"))
	assert.Equal(t, 2025, ToInt(" 2025 "))
	assert.Zero(t, ToInt(""))
	assert.Zero(t, ToInt("abc"))
}

func TestToIntD(t *testing.T) {
	assert.Equal(t, 7, ToIntD("", 7))
	assert.Equal(t, 7, ToIntD("x", 7))
	assert.Equal(t, -1, ToIntD("-1", 7))
}
