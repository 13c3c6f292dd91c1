package purchase

import (
	"Go-Voting-Backend/domain"
	"Go-Voting-Backend/entities"
	"Go-Voting-Backend/internal/testutil"
	"context"
	"fmt"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func initiateCustom(t *testing.T, f *fixture, userID string, points int, amount int64) *domain.PurchaseResponse {
	t.Helper()
	resp, err := f.purchases.Initiate(context.Background(), domain.PurchaseRequest{
		Points:        points,
		Amount:        amount,
		PaymentMethod: "OV",
	}, userID)
	require.NoError(t, err)
	return resp
}

func TestEndToEndPurchaseFlow(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, 0)
	ctx := context.Background()

	resp := initiateCustom(t, f, user.ID.String(), 10, 10000)
	require.NotEmpty(t, resp.PointPurchaseID)
	require.NotEmpty(t, resp.PaymentURL)

	cb := signedCallback(resp.MerchantOrderID, 10000, "00")
	res, err := f.callbacks.HandleCallback(ctx, cb)
	require.NoError(t, err)
	require.True(t, res.NewlySettled)
	require.Equal(t, entities.PaymentStatusSuccess, res.Status)
	require.Equal(t, 10, testutil.Balance(t, f.db, user.ID))

	stored := f.purchase(t, resp.MerchantOrderID)
	require.Equal(t, entities.PaymentStatusSuccess, stored.PaymentStatus)
	require.Equal(t, "00", stored.ResultCode)
	require.NotNil(t, stored.SettledAt)

	res, err = f.callbacks.HandleCallback(ctx, cb)
	require.NoError(t, err)
	require.False(t, res.NewlySettled)
	require.Equal(t, entities.PaymentStatusSuccess, res.Status)
	require.Equal(t, 10, testutil.Balance(t, f.db, user.ID))

	require.Equal(t, 1, f.notifier.count())
	require.Equal(t, 1, f.archiver.count())
}

func TestCallbackIsIdempotent(t *testing.T) {
	for _, deliveries := range []int{1, 2, 5} {
		t.Run(fmt.Sprintf("%d deliveries", deliveries), func(t *testing.T) {
			f := newFixture(t)
			user := testutil.CreateUser(t, f.db, 3)
			resp := initiateCustom(t, f, user.ID.String(), 25, 20000)
			cb := signedCallback(resp.MerchantOrderID, 20000, "00")

			newly := 0
			for i := 0; i < deliveries; i++ {
				res, err := f.callbacks.HandleCallback(context.Background(), cb)
				require.NoError(t, err)
				if res.NewlySettled {
					newly++
				}
			}

			stored := f.purchase(t, resp.MerchantOrderID)
			require.Equal(t, 1, newly)
			require.Equal(t, 28, testutil.Balance(t, f.db, user.ID))
			require.Equal(t, int64(1), f.historyCount(t, stored.ID))
		})
	}
}

func TestCallbackConcurrentDeliveriesCreditOnce(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, 0)
	resp := initiateCustom(t, f, user.ID.String(), 10, 10000)
	cb := signedCallback(resp.MerchantOrderID, 10000, "00")

	const deliveries = 8
	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		newly int
		errs  []error
	)
	for i := 0; i < deliveries; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := f.callbacks.HandleCallback(context.Background(), cb)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			if res.NewlySettled {
				newly++
			}
		}()
	}
	wg.Wait()

	require.Empty(t, errs)
	require.Equal(t, 1, newly)
	require.Equal(t, 10, testutil.Balance(t, f.db, user.ID))
	require.Equal(t, int64(1), f.historyCount(t, f.purchase(t, resp.MerchantOrderID).ID))
}

func TestCallbackRejectsTamperedPayloads(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, 0)
	resp := initiateCustom(t, f, user.ID.String(), 10, 10000)
	valid := signedCallback(resp.MerchantOrderID, 10000, "00")

	tamperedAmount := valid
	tamperedAmount.Amount = 1000000
	tamperedAmount.RawAmount = "1000000"

	tamperedOrder := valid
	tamperedOrder.MerchantOrderID = resp.MerchantOrderID + "X"

	tamperedSignature := valid
	tamperedSignature.Signature = "ffffffffffffffffffffffffffffffff"

	wrongMerchant := signedCallback(resp.MerchantOrderID, 10000, "00")
	wrongMerchant.MerchantCode = "DS9999"
	wrongMerchant.Signature = "d41d8cd98f00b204e9800998ecf8427e"

	for name, cb := range map[string]domain.DuitkuCallback{
		"amount":    tamperedAmount,
		"order":     tamperedOrder,
		"signature": tamperedSignature,
		"merchant":  wrongMerchant,
	} {
		t.Run(name, func(t *testing.T) {
			res, err := f.callbacks.HandleCallback(context.Background(), cb)
			require.ErrorIs(t, err, domain.ErrInvalidSignature)
			require.Nil(t, res)
		})
	}

	stored := f.purchase(t, resp.MerchantOrderID)
	require.Equal(t, entities.PaymentStatusPending, stored.PaymentStatus)
	require.Equal(t, 0, testutil.Balance(t, f.db, user.ID))
	require.Zero(t, f.historyCount(t, stored.ID))
	require.Zero(t, f.notifier.count())
}

func TestCallbackUnknownOrder(t *testing.T) {
	f := newFixture(t)

	_, err := f.callbacks.HandleCallback(context.Background(), signedCallback("VOTE-0000000000-nobody-AAAAAAAA", 10000, "00"))
	require.ErrorIs(t, err, domain.ErrUnknownOrder)

	var n int64
	require.NoError(t, f.db.Model(&entities.PointPurchase{}).Count(&n).Error)
	require.Zero(t, n)
}

func TestCallbackAmountMismatch(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, 0)
	resp := initiateCustom(t, f, user.ID.String(), 10, 10000)

	// Correctly signed, but for a different amount than was ordered
	_, err := f.callbacks.HandleCallback(context.Background(), signedCallback(resp.MerchantOrderID, 5000, "00"))
	require.ErrorIs(t, err, domain.ErrAmountMismatch)

	require.Equal(t, entities.PaymentStatusPending, f.purchase(t, resp.MerchantOrderID).PaymentStatus)
	require.Equal(t, 0, testutil.Balance(t, f.db, user.ID))
}

func TestCallbackResultCodes(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, 0)
	ctx := context.Background()

	pending := initiateCustom(t, f, user.ID.String(), 10, 10000)
	res, err := f.callbacks.HandleCallback(ctx, signedCallback(pending.MerchantOrderID, 10000, "01"))
	require.NoError(t, err)
	require.False(t, res.NewlySettled)
	require.Equal(t, entities.PaymentStatusPending, res.Status)
	require.Equal(t, entities.PaymentStatusPending, f.purchase(t, pending.MerchantOrderID).PaymentStatus)

	// A later success still settles it
	res, err = f.callbacks.HandleCallback(ctx, signedCallback(pending.MerchantOrderID, 10000, "00"))
	require.NoError(t, err)
	require.True(t, res.NewlySettled)

	failed := initiateCustom(t, f, user.ID.String(), 10, 10000)
	res, err = f.callbacks.HandleCallback(ctx, signedCallback(failed.MerchantOrderID, 10000, "02"))
	require.NoError(t, err)
	require.True(t, res.NewlySettled)
	require.Equal(t, entities.PaymentStatusFailed, res.Status)

	// Terminal failure never flips to success
	res, err = f.callbacks.HandleCallback(ctx, signedCallback(failed.MerchantOrderID, 10000, "00"))
	require.NoError(t, err)
	require.False(t, res.NewlySettled)
	require.Equal(t, entities.PaymentStatusFailed, res.Status)

	require.Equal(t, 10, testutil.Balance(t, f.db, user.ID))
	require.Zero(t, f.historyCount(t, f.purchase(t, failed.MerchantOrderID).ID))
	require.Equal(t, 1, f.notifier.count())
}

func TestCallbackHistoryValidity(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, 0)
	pkg := testutil.CreatePackage(t, f.db, 100, 90000, 7)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	f.callbacks.(*callbackService).now = func() time.Time { return now }

	withPackage, err := f.purchases.Initiate(ctx, domain.PurchaseRequest{PackageID: pkg.ID.String(), PaymentMethod: "OV"}, user.ID.String())
	require.NoError(t, err)
	custom := initiateCustom(t, f, user.ID.String(), 15, 15000)

	for _, id := range []string{withPackage.MerchantOrderID, custom.MerchantOrderID} {
		p := f.purchase(t, id)
		_, err := f.callbacks.HandleCallback(ctx, signedCallback(id, p.Amount, "00"))
		require.NoError(t, err)
	}

	var pkgHistory, customHistory entities.PackageHistory
	require.NoError(t, f.db.First(&pkgHistory, "point_purchase_id = ?", f.purchase(t, withPackage.MerchantOrderID).ID).Error)
	require.NoError(t, f.db.First(&customHistory, "point_purchase_id = ?", f.purchase(t, custom.MerchantOrderID).ID).Error)

	require.Equal(t, pkg.ID.String(), pkgHistory.PackageID)
	require.Equal(t, 100, pkgHistory.PointsReceived)
	require.True(t, pkgHistory.ValidUntil.Equal(now.AddDate(0, 0, 7)))
	require.True(t, pkgHistory.IsActive)

	require.Equal(t, "", customHistory.PackageID)
	require.True(t, customHistory.ValidUntil.Equal(now.AddDate(0, 0, 30)))
	require.Equal(t, 115, testutil.Balance(t, f.db, user.ID))
}

func TestCallbackKeepsValidityOfDeletedPackage(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, 0)
	pkg := testutil.CreatePackage(t, f.db, 50, 45000, 7)
	ctx := context.Background()
	now := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	f.callbacks.(*callbackService).now = func() time.Time { return now }

	resp, err := f.purchases.Initiate(ctx, domain.PurchaseRequest{PackageID: pkg.ID.String(), PaymentMethod: "OV"}, user.ID.String())
	require.NoError(t, err)

	// Package retired while the payment is in flight
	require.NoError(t, f.db.Delete(pkg).Error)

	_, err = f.callbacks.HandleCallback(ctx, signedCallback(resp.MerchantOrderID, 45000, "00"))
	require.NoError(t, err)

	var history entities.PackageHistory
	require.NoError(t, f.db.First(&history, "point_purchase_id = ?", f.purchase(t, resp.MerchantOrderID).ID).Error)
	require.Equal(t, pkg.ID.String(), history.PackageID)
	require.True(t, history.ValidUntil.Equal(now.AddDate(0, 0, 7)))
	require.Equal(t, 50, testutil.Balance(t, f.db, user.ID))
}

func TestCallbackSideEffectFailureDoesNotUndoSettlement(t *testing.T) {
	f := newFixture(t)
	f.notifier.fail = true
	user := testutil.CreateUser(t, f.db, 0)
	resp := initiateCustom(t, f, user.ID.String(), 10, 10000)

	res, err := f.callbacks.HandleCallback(context.Background(), signedCallback(resp.MerchantOrderID, 10000, "00"))
	require.NoError(t, err)
	require.True(t, res.NewlySettled)
	require.Equal(t, 10, testutil.Balance(t, f.db, user.ID))
	require.Equal(t, 1, f.notifier.count())
}

func TestSettleRollsBackWhenUserMissing(t *testing.T) {
	f := newFixture(t)
	user := testutil.CreateUser(t, f.db, 0)
	resp := initiateCustom(t, f, user.ID.String(), 10, 10000)
	require.NoError(t, f.db.Unscoped().Delete(&entities.User{}, "id = ?", user.ID).Error)

	p := f.purchase(t, resp.MerchantOrderID)
	applied, err := f.repo.Settle(context.Background(), p, Settlement{
		Status:     entities.PaymentStatusSuccess,
		ResultCode: "00",
		SettledAt:  time.Now().UTC(),
		History:    &entities.PackageHistory{PointsReceived: 10, ValidUntil: time.Now().UTC().Add(time.Hour), IsActive: true},
	})
	require.ErrorIs(t, err, domain.ErrUserNotFound)
	require.False(t, applied)
	require.Equal(t, entities.PaymentStatusPending, f.purchase(t, resp.MerchantOrderID).PaymentStatus)
	require.Zero(t, f.historyCount(t, p.ID))
}
