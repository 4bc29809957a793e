package service

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"

	"github.com/tripmaster/trip-scout/internal/domain"
)

func TestClientCreateSanitizesInput(t *testing.T) {
	clients := &fakeClientRepo{}
	svc := NewClientService(clients, &fakeTripRepo{})
	staffID := uuid.New()

	email := "  ana@example.com  "
	blank := "   "
	client, err := svc.Create(context.Background(), staffID, ClientInput{
		Name:  "  Ana\n Costa  ",
		Email: &email,
		Phone: &blank,
	})
	if err != nil {
		t.Fatalf("Create: %v", err)
	}
	if client.Name != "Ana Costa" {
		t.Fatalf("name = %q", client.Name)
	}
	if client.Email == nil || *client.Email != "ana@example.com" {
		t.Fatalf("email = %v", client.Email)
	}
	if client.Phone != nil {
		t.Fatalf("blank optional should be dropped, got %v", client.Phone)
	}
	if client.CreatedByID == nil || *client.CreatedByID != staffID {
		t.Fatal("creator not recorded")
	}
}

func TestClientCreateRequiresName(t *testing.T) {
	svc := NewClientService(&fakeClientRepo{}, &fakeTripRepo{})

	if _, err := svc.Create(context.Background(), uuid.New(), ClientInput{Name: "   "}); !errors.Is(err, ErrClientNameNeeded) {
		t.Fatalf("err = %v, want ErrClientNameNeeded", err)
	}
}

func TestClientGetNotFound(t *testing.T) {
	svc := NewClientService(&fakeClientRepo{}, &fakeTripRepo{})

	if _, err := svc.Get(context.Background(), 99); !errors.Is(err, ErrClientNotFound) {
		t.Fatalf("err = %v, want ErrClientNotFound", err)
	}
}

func TestClientGetWithTrips(t *testing.T) {
	clients := &fakeClientRepo{byID: map[int64]*domain.Client{7: {ID: 7, Name: "Ana"}}}
	svc := NewClientService(clients, &fakeTripRepo{})

	client, trips, err := svc.GetWithTrips(context.Background(), 7)
	if err != nil {
		t.Fatalf("GetWithTrips: %v", err)
	}
	if client.ID != 7 || trips != nil && len(trips) != 0 {
		t.Fatalf("client = %+v, trips = %v", client, trips)
	}
}

func TestNormalizePagination(t *testing.T) {
	cases := []struct {
		limit, offset         int
		wantLimit, wantOffset int
	}{
		{0, 0, 20, 0},
		{-5, -3, 20, 0},
		{500, 10, 100, 10},
		{50, 5, 50, 5},
	}
	for _, tc := range cases {
		limit, offset := normalizePagination(tc.limit, tc.offset)
		if limit != tc.wantLimit || offset != tc.wantOffset {
			t.Fatalf("normalizePagination(%d, %d) = (%d, %d), want (%d, %d)",
				tc.limit, tc.offset, limit, offset, tc.wantLimit, tc.wantOffset)
		}
	}
}
