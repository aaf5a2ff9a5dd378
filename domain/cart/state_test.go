package cart

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/0x-70da/horus-shop/domain/catalog"
)

func testProduct() catalog.Product {
	return catalog.Product{
		ID:    "p1",
		Name:  "Phone",
		Price: 100,
		Variants: []catalog.ProductVariant{
			{ID: "256", Name: "256GB", Price: 120, Stock: 3},
			{ID: "512", Name: "512GB", Price: 150, Stock: 1},
		},
	}
}

func TestAddItem_MergesQuantity(t *testing.T) {
	p := testProduct()

	s := AddItem(NewState(), p, 2, nil)
	s = AddItem(s, p, 3, nil)

	require.Len(t, s.Items, 1)
	assert.Equal(t, 5, s.Items[0].Quantity)
}

func TestAddItem_VariantIsPartOfKey(t *testing.T) {
	p := testProduct()
	v256, _ := p.Variant("256")
	v512, _ := p.Variant("512")

	s := AddItem(NewState(), p, 1, nil)
	s = AddItem(s, p, 1, &v256)
	s = AddItem(s, p, 2, &v512)
	s = AddItem(s, p, 1, &v256)

	require.Len(t, s.Items, 3)
	item, ok := Find(s, "p1", "256")
	require.True(t, ok)
	assert.Equal(t, 2, item.Quantity)
	assert.Equal(t, []string{"", "256", "512"}, []string{s.Items[0].VariantID(), s.Items[1].VariantID(), s.Items[2].VariantID()})
}

func TestAddItem_DoesNotMutateInput(t *testing.T) {
	p := testProduct()
	before := AddItem(NewState(), p, 1, nil)

	_ = AddItem(before, p, 4, nil)

	assert.Equal(t, 1, before.Items[0].Quantity)
}

func TestUpdateQuantity(t *testing.T) {
	p := testProduct()
	s := AddItem(NewState(), p, 2, nil)

	s = UpdateQuantity(s, "p1", "", 7)
	item, _ := Find(s, "p1", "")
	assert.Equal(t, 7, item.Quantity)

	s = UpdateQuantity(s, "missing", "", 3)
	assert.Len(t, s.Items, 1)
}

func TestUpdateQuantity_ZeroRemoves(t *testing.T) {
	p := testProduct()
	s := AddItem(NewState(), p, 2, nil)

	s = UpdateQuantity(s, "p1", "", 0)
	assert.Empty(t, s.Items)

	again := RemoveItem(s, "p1", "")
	assert.Equal(t, s, again)
}

func TestRemoveItem_OnlyMatchingVariant(t *testing.T) {
	p := testProduct()
	v256, _ := p.Variant("256")
	s := AddItem(NewState(), p, 1, nil)
	s = AddItem(s, p, 1, &v256)

	s = RemoveItem(s, "p1", "256")

	require.Len(t, s.Items, 1)
	assert.Equal(t, "", s.Items[0].VariantID())
}

func TestApplyPromoCode(t *testing.T) {
	tests := []struct {
		code    string
		applied bool
		want    float64
	}{
		{"save20", true, 20},
		{"TECH10", true, 10},
		{" NewUser ", true, 15},
		{"BOGUS", false, 0},
	}

	for _, tt := range tests {
		t.Run(tt.code, func(t *testing.T) {
			s, applied := ApplyPromoCode(NewState(), tt.code)
			assert.Equal(t, tt.applied, applied)
			assert.Equal(t, tt.want, s.PromoDiscount)
		})
	}
}

func TestApplyPromoCode_UnknownKeepsExistingCode(t *testing.T) {
	s, _ := ApplyPromoCode(NewState(), "tech10")

	after, applied := ApplyPromoCode(s, "BOGUS")

	assert.False(t, applied)
	assert.Equal(t, float64(10), after.PromoDiscount)
	require.NotNil(t, after.PromoCode)
	assert.Equal(t, "TECH10", *after.PromoCode)
}

func TestTotals(t *testing.T) {
	p := testProduct()
	v512, _ := p.Variant("512")

	s := AddItem(NewState(), p, 2, nil)
	s = AddItem(s, p, 1, &v512)

	assert.Equal(t, 3, ItemCount(s))
	assert.InDelta(t, 350.0, Subtotal(s), 0.0001)
	assert.InDelta(t, 350.0, Total(s), 0.0001)

	s, _ = ApplyPromoCode(s, "save20")
	assert.InDelta(t, 70.0, Discount(s), 0.0001)
	assert.InDelta(t, 280.0, Total(s), 0.0001)

	s = RemovePromoCode(s)
	assert.Nil(t, s.PromoCode)
	assert.InDelta(t, 350.0, Total(s), 0.0001)
}

func TestClear(t *testing.T) {
	s := AddItem(NewState(), testProduct(), 1, nil)
	s, _ = ApplyPromoCode(s, "SAVE20")

	s = Clear(s)

	assert.Empty(t, s.Items)
	assert.Nil(t, s.PromoCode)
	assert.Zero(t, s.PromoDiscount)
}

func TestState_SnapshotLayout(t *testing.T) {
	s := AddItem(NewState(), testProduct(), 1, nil)

	data, err := json.Marshal(s)
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Contains(t, doc, "items")
	assert.Contains(t, doc, "promoCode")
	assert.Nil(t, doc["promoCode"])
	assert.Contains(t, doc, "promoDiscount")

	item := doc["items"].([]any)[0].(map[string]any)
	assert.Equal(t, "p1", item["productId"])
	assert.NotContains(t, item, "selectedVariant")
}
