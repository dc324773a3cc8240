package readstore

import (
	"context"

	"cruise-booking/internal/infra"
	"cruise-booking/internal/infra/db"
	"cruise-booking/internal/usecase/queries"

	"github.com/google/uuid"
)

type OrderReadStore struct {
	db db.DBTX
}

func NewOrderReadStore(dbtx db.DBTX) *OrderReadStore {
	return &OrderReadStore{db: dbtx}
}

func (r *OrderReadStore) FindByID(ctx context.Context, id uuid.UUID) (*queries.OrderView, error) {
	var v queries.OrderView
	err := r.db.QueryRow(ctx,
		`SELECT o.id, o.order_no, o.user_id, o.cruise_id, COALESCE(c.name, ''), o.voyage_id,
		        o.status, o.total_cents, o.discount_cents, o.paid_cents,
		        o.contact_name, o.contact_phone, o.contact_email,
		        o.expire_at, o.paid_at, o.confirmed_at,
		        COALESCE(o.cancel_reason, ''), COALESCE(o.refund_reason, ''), o.refunded_at,
		        o.created_at, o.updated_at
		 FROM orders o
		 LEFT JOIN cruises c ON c.id = o.cruise_id
		 WHERE o.id = $1`,
		id,
	).Scan(
		&v.ID, &v.OrderNo, &v.UserID, &v.CruiseID, &v.CruiseName, &v.VoyageID,
		&v.Status, &v.TotalCents, &v.DiscountCents, &v.PaidCents,
		&v.ContactName, &v.ContactPhone, &v.ContactEmail,
		&v.ExpireAt, &v.PaidAt, &v.ConfirmedAt,
		&v.CancelReason, &v.RefundReason, &v.RefundedAt,
		&v.CreatedAt, &v.UpdatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order view", err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Items = items

	passengers, err := r.findPassengers(ctx, id)
	if err != nil {
		return nil, err
	}
	v.Passengers = passengers

	return &v, nil
}

func (r *OrderReadStore) findItems(ctx context.Context, orderID uuid.UUID) ([]queries.OrderItemView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT i.id, i.cabin_type_id, COALESCE(ct.name, ''), i.voyage_id,
		        i.quantity, i.adult_count, i.child_count, i.infant_count, i.subtotal_cents
		 FROM order_items i
		 LEFT JOIN cabin_types ct ON ct.id = i.cabin_type_id
		 WHERE i.order_id = $1
		 ORDER BY i.cabin_type_id`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order item views", err)
	}
	defer rows.Close()

	var items []queries.OrderItemView
	for rows.Next() {
		var it queries.OrderItemView
		if err := rows.Scan(
			&it.ID, &it.CabinTypeID, &it.CabinTypeName, &it.VoyageID,
			&it.Quantity, &it.AdultCount, &it.ChildCount, &it.InfantCount, &it.SubtotalCents,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item view", err)
		}
		items = append(items, it)
	}
	return items, rows.Err()
}

func (r *OrderReadStore) findPassengers(ctx context.Context, orderID uuid.UUID) ([]queries.PassengerView, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_item_id, name, surname, type,
		        (name <> '' AND surname <> '' AND gender <> '' AND birth_date <> ''
		         AND (id_number <> '' OR passport_number <> '')) AS complete
		 FROM order_passengers
		 WHERE order_id = $1
		 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find passenger views", err)
	}
	defer rows.Close()

	var passengers []queries.PassengerView
	for rows.Next() {
		var p queries.PassengerView
		if err := rows.Scan(&p.ID, &p.OrderItemID, &p.Name, &p.Surname, &p.Type, &p.Complete); err != nil {
			return nil, infra.WrapRepoErr("failed to scan passenger view", err)
		}
		passengers = append(passengers, p)
	}
	return passengers, rows.Err()
}

func (r *OrderReadStore) FindFiltered(ctx context.Context, filter queries.OrderListFilter, limit, offset int32) ([]*queries.OrderListItem, error) {
	rows, err := r.db.Query(ctx,
		`SELECT o.id, o.order_no, COALESCE(c.name, ''), o.status, o.total_cents, o.expire_at, o.created_at
		 FROM orders o
		 LEFT JOIN cruises c ON c.id = o.cruise_id
		 WHERE ($1 = '' OR o.status = $1)
		   AND ($2::uuid IS NULL OR o.user_id = $2)
		   AND ($3 = '' OR o.order_no = $3)
		 ORDER BY o.created_at DESC, o.id DESC
		 LIMIT $4 OFFSET $5`,
		filter.Status, filter.UserID, filter.OrderNo, limit, offset,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to list orders", err)
	}
	defer rows.Close()

	var list []*queries.OrderListItem
	for rows.Next() {
		var item queries.OrderListItem
		if err := rows.Scan(
			&item.ID, &item.OrderNo, &item.CruiseName, &item.Status,
			&item.TotalCents, &item.ExpireAt, &item.CreatedAt,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order list item", err)
		}
		list = append(list, &item)
	}
	return list, rows.Err()
}
