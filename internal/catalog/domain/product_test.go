package domain

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestEffectivePrice(t *testing.T) {
	t.Run("Discount applied with floor division", func(t *testing.T) {
		p := Product{Price: 1000, Discount: 10}
		assert.Equal(t, 900, p.EffectivePrice())
	})

	t.Run("Odd amounts round down", func(t *testing.T) {
		p := Product{Price: 999, Discount: 10}
		// 999 - 999*10/100 = 999 - 99
		assert.Equal(t, 900, p.EffectivePrice())
	})

	t.Run("No discount returns full price", func(t *testing.T) {
		p := Product{Price: 1000}
		assert.Equal(t, 1000, p.EffectivePrice())
	})

	t.Run("Full discount is free", func(t *testing.T) {
		p := Product{Price: 1000, Discount: 100}
		assert.Equal(t, 0, p.EffectivePrice())
	})
}

func TestMonthlyPrice(t *testing.T) {
	p := Product{Price: 1200, Discount: 0}
	assert.Equal(t, 100, p.MonthlyPrice())

	discounted := Product{Price: 1000, Discount: 10}
	assert.Equal(t, 75, discounted.MonthlyPrice())
}

func TestInStock(t *testing.T) {
	assert.True(t, (&Product{Quantity: 1}).InStock())
	assert.False(t, (&Product{Quantity: 0}).InStock())
}

func TestCategoryIsRoot(t *testing.T) {
	root := Category{}
	assert.True(t, root.IsRoot())

	parent := uint(3)
	child := Category{ParentID: &parent}
	assert.False(t, child.IsRoot())
}
