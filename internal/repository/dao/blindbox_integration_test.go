package dao

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func seedUser(t *testing.T, db *gorm.DB, username string) User {
	t.Helper()

	user, err := NewUserDAO(db).Insert(context.Background(), User{
		Username: username,
		Password: "hashed-password",
	})
	require.NoError(t, err)

	return user
}

func seedBox(t *testing.T, db *gorm.DB, merchantID uint, pool []string, price float64, stock int) BlindBox {
	t.Helper()

	encoded, err := EncodeContentImages(pool)
	require.NoError(t, err)

	box, err := NewBlindBoxDAO(db).Insert(context.Background(), BlindBox{
		MerchantID:    merchantID,
		Name:          "Space Series",
		CoverImage:    "cover.png",
		ContentImages: encoded,
		Price:         price,
		TotalStock:    stock,
	})
	require.NoError(t, err)

	return box
}

// pickSeq returns a pick function that replays the given pool positions.
func pickSeq(picks ...int) func(n int) int {
	i := 0
	return func(n int) int {
		v := picks[i%len(picks)] % n
		i++
		return v
	}
}

func TestBlindBoxDAO_Purchase(t *testing.T) {
	db := openTestDB(t)
	d := NewBlindBoxDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	buyer := seedUser(t, db, "buyer")
	box := seedBox(t, db, merchant.ID, []string{"a.png", "b.png"}, 10.50, 10)

	res, err := d.Purchase(ctx, buyer.ID, box.ID, 3)
	require.NoError(t, err)
	assert.Equal(t, 3, res.Quantity)
	assert.InDelta(t, 31.50, res.TotalPrice, 0.001)

	// Repeat purchases accumulate on the same ownership record.
	_, err = d.Purchase(ctx, buyer.ID, box.ID, 2)
	require.NoError(t, err)

	owned, err := d.FindOwnedQuantity(ctx, buyer.ID, box.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, owned)

	updated, err := d.FindByID(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, updated.OrderCount)
	assert.Equal(t, 10, updated.TotalStock)

	// Only 5 units remain unsold.
	_, err = d.Purchase(ctx, buyer.ID, box.ID, 6)
	assert.ErrorIs(t, err, ErrInsufficientStock)

	owned, err = d.FindOwnedQuantity(ctx, buyer.ID, box.ID)
	require.NoError(t, err)
	assert.Equal(t, 5, owned, "failed purchase must not change ownership")

	_, err = d.Purchase(ctx, buyer.ID, 9999, 1)
	assert.ErrorIs(t, err, ErrBlindBoxNotFound)
}

func TestBlindBoxDAO_Draw(t *testing.T) {
	db := openTestDB(t)
	d := NewBlindBoxDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	buyer := seedUser(t, db, "buyer")
	box := seedBox(t, db, merchant.ID, []string{"a.png", "a.png", "b.png"}, 10, 10)

	_, err := d.Purchase(ctx, buyer.ID, box.ID, 5)
	require.NoError(t, err)

	drawn, err := d.Draw(ctx, buyer.ID, box.ID, 3, pickSeq(0, 1, 2))
	require.NoError(t, err)
	assert.Equal(t, []string{"a.png", "a.png", "b.png"}, drawn)

	owned, err := d.FindOwnedQuantity(ctx, buyer.ID, box.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, owned)

	// Equal drawn images collapse into one unshipped record.
	draws, err := d.FindDrawsByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, draws, 2)

	byImage := map[string]Draw{}
	for _, dr := range draws {
		byImage[dr.DrawnImage] = dr
		assert.Nil(t, dr.ShippingAddress)
	}
	assert.Equal(t, 2, byImage["a.png"].Quantity)
	assert.Equal(t, 1, byImage["b.png"].Quantity)

	// A second draw of the same image grows the existing record.
	_, err = d.Draw(ctx, buyer.ID, box.ID, 2, pickSeq(2, 2))
	require.NoError(t, err)

	// Ownership record is deleted once fully drawn.
	owned, err = d.FindOwnedQuantity(ctx, buyer.ID, box.ID)
	require.NoError(t, err)
	assert.Equal(t, 0, owned)

	draws, err = d.FindDrawsByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, draws, 2)

	total := 0
	for _, dr := range draws {
		total += dr.Quantity
	}
	assert.Equal(t, 5, total, "every drawn unit must be accounted for")

	_, err = d.Draw(ctx, buyer.ID, box.ID, 1, pickSeq(0))
	assert.ErrorIs(t, err, ErrInsufficientOwnedBoxes)
}

func TestBlindBoxDAO_Draw_MoreThanOwned(t *testing.T) {
	db := openTestDB(t)
	d := NewBlindBoxDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	buyer := seedUser(t, db, "buyer")
	box := seedBox(t, db, merchant.ID, []string{"a.png"}, 10, 10)

	_, err := d.Purchase(ctx, buyer.ID, box.ID, 2)
	require.NoError(t, err)

	_, err = d.Draw(ctx, buyer.ID, box.ID, 3, pickSeq(0))
	assert.ErrorIs(t, err, ErrInsufficientOwnedBoxes)

	owned, err := d.FindOwnedQuantity(ctx, buyer.ID, box.ID)
	require.NoError(t, err)
	assert.Equal(t, 2, owned, "failed draw must not consume units")
}

func TestBlindBoxDAO_Ship(t *testing.T) {
	db := openTestDB(t)
	d := NewBlindBoxDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	buyer := seedUser(t, db, "buyer")
	box := seedBox(t, db, merchant.ID, []string{"a.png"}, 10, 10)

	_, err := d.Purchase(ctx, buyer.ID, box.ID, 2)
	require.NoError(t, err)
	_, err = d.Draw(ctx, buyer.ID, box.ID, 2, pickSeq(0))
	require.NoError(t, err)

	draws, err := d.FindDrawsByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, draws, 1)
	require.Equal(t, 2, draws[0].Quantity)
	sourceID := draws[0].ID

	// First call splits one unit off into a shipped record.
	require.NoError(t, d.Ship(ctx, buyer.ID, sourceID, "1 Main St"))

	draws, err = d.FindDrawsByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, draws, 2)

	var shipped, unshipped []Draw
	for _, dr := range draws {
		if dr.ShippingAddress != nil {
			shipped = append(shipped, dr)
		} else {
			unshipped = append(unshipped, dr)
		}
	}
	require.Len(t, shipped, 1)
	require.Len(t, unshipped, 1)
	assert.Equal(t, 1, shipped[0].Quantity)
	assert.Equal(t, "1 Main St", *shipped[0].ShippingAddress)
	assert.Equal(t, 1, unshipped[0].Quantity)

	// Second call ships the last unit and deletes the source record.
	require.NoError(t, d.Ship(ctx, buyer.ID, sourceID, "2 Side St"))

	draws, err = d.FindDrawsByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, draws, 2)
	for _, dr := range draws {
		require.NotNil(t, dr.ShippingAddress)
		assert.Equal(t, 1, dr.Quantity)
	}

	// Nothing left to ship under that ID.
	err = d.Ship(ctx, buyer.ID, sourceID, "3 Back St")
	assert.ErrorIs(t, err, ErrDrawNotFound)

	// A shipped record can never be shipped again.
	err = d.Ship(ctx, buyer.ID, shipped[0].ID, "4 Other St")
	assert.ErrorIs(t, err, ErrDrawNotFound)
}

func TestBlindBoxDAO_Ship_OtherUsersDraw(t *testing.T) {
	db := openTestDB(t)
	d := NewBlindBoxDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	buyer := seedUser(t, db, "buyer")
	other := seedUser(t, db, "other")
	box := seedBox(t, db, merchant.ID, []string{"a.png"}, 10, 10)

	_, err := d.Purchase(ctx, buyer.ID, box.ID, 1)
	require.NoError(t, err)
	_, err = d.Draw(ctx, buyer.ID, box.ID, 1, pickSeq(0))
	require.NoError(t, err)

	draws, err := d.FindDrawsByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, draws, 1)

	err = d.Ship(ctx, other.ID, draws[0].ID, "1 Main St")
	assert.ErrorIs(t, err, ErrDrawNotFound)
}

func TestBlindBoxDAO_Delist(t *testing.T) {
	db := openTestDB(t)
	d := NewBlindBoxDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	buyer := seedUser(t, db, "buyer")

	t.Run("cannot delist sold units", func(t *testing.T) {
		box := seedBox(t, db, merchant.ID, []string{"a.png"}, 10, 10)
		_, err := d.Purchase(ctx, buyer.ID, box.ID, 3)
		require.NoError(t, err)

		_, err = d.Delist(ctx, box.ID, 8)
		assert.ErrorIs(t, err, ErrExceedsAvailableStock)

		deleted, err := d.Delist(ctx, box.ID, 7)
		require.NoError(t, err)
		assert.False(t, deleted)

		updated, err := d.FindByID(ctx, box.ID)
		require.NoError(t, err)
		assert.Equal(t, 3, updated.TotalStock)
		assert.Equal(t, 3, updated.OrderCount)

		// Every remaining unit is already sold.
		_, err = d.Delist(ctx, box.ID, 1)
		assert.ErrorIs(t, err, ErrExceedsAvailableStock)
	})

	t.Run("delisting all stock deletes the listing", func(t *testing.T) {
		box := seedBox(t, db, merchant.ID, []string{"a.png"}, 10, 5)

		deleted, err := d.Delist(ctx, box.ID, 5)
		require.NoError(t, err)
		assert.True(t, deleted)

		_, err = d.FindByID(ctx, box.ID)
		assert.ErrorIs(t, err, ErrBlindBoxNotFound)
	})

	t.Run("missing listing", func(t *testing.T) {
		_, err := d.Delist(ctx, 9999, 1)
		assert.ErrorIs(t, err, ErrBlindBoxNotFound)
	})
}

func TestBlindBoxDAO_Relist(t *testing.T) {
	db := openTestDB(t)
	d := NewBlindBoxDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	box := seedBox(t, db, merchant.ID, []string{"a.png"}, 10, 5)

	require.NoError(t, d.Relist(ctx, box.ID, 4))

	updated, err := d.FindByID(ctx, box.ID)
	require.NoError(t, err)
	assert.Equal(t, 9, updated.TotalStock)

	err = d.Relist(ctx, 9999, 1)
	assert.ErrorIs(t, err, ErrBlindBoxNotFound)
}

func TestBlindBoxDAO_FindOrdersByBoxID(t *testing.T) {
	db := openTestDB(t)
	d := NewBlindBoxDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	buyer := seedUser(t, db, "buyer")
	box := seedBox(t, db, merchant.ID, []string{"a.png"}, 10, 10)

	_, err := d.Purchase(ctx, buyer.ID, box.ID, 3)
	require.NoError(t, err)
	_, err = d.Draw(ctx, buyer.ID, box.ID, 3, pickSeq(0))
	require.NoError(t, err)

	draws, err := d.FindDrawsByUserID(ctx, buyer.ID)
	require.NoError(t, err)
	require.Len(t, draws, 1)

	require.NoError(t, d.Ship(ctx, buyer.ID, draws[0].ID, "1 Main St"))

	orders, err := d.FindOrdersByBoxID(ctx, box.ID)
	require.NoError(t, err)
	require.Len(t, orders, 1, "unshipped draws are not orders")
	assert.Equal(t, "buyer", orders[0].Username)
	assert.Equal(t, "a.png", orders[0].DrawnImage)
	assert.Equal(t, 1, orders[0].Quantity)
	assert.Equal(t, "1 Main St", orders[0].ShippingAddress)
}

func TestUserDAO_Insert_DuplicateUsername(t *testing.T) {
	db := openTestDB(t)
	d := NewUserDAO(db)
	ctx := context.Background()

	_, err := d.Insert(ctx, User{Username: "alice", Password: "h1"})
	require.NoError(t, err)

	_, err = d.Insert(ctx, User{Username: "alice", Password: "h2"})
	assert.ErrorIs(t, err, ErrUsernameExists)
}

func TestCommentDAO_Insert(t *testing.T) {
	db := openTestDB(t)
	d := NewCommentDAO(db)
	ctx := context.Background()

	merchant := seedUser(t, db, "merchant")
	buyer := seedUser(t, db, "buyer")
	box := seedBox(t, db, merchant.ID, []string{"a.png"}, 10, 10)

	row, err := d.Insert(ctx, Comment{
		BlindBoxID: box.ID,
		UserID:     buyer.ID,
		Content:    "love this series",
	})
	require.NoError(t, err)
	assert.Equal(t, "buyer", row.Username)
	assert.Equal(t, "love this series", row.Content)

	rows, err := d.FindByBlindBoxID(ctx, box.ID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, row.ID, rows[0].ID)
}
