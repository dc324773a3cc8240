package repo_impl

import (
	"context"
	"time"

	"cruise-booking/internal/domain/order"
	"cruise-booking/internal/infra"
	"cruise-booking/internal/infra/db"

	"github.com/google/uuid"
)

type OrderRepository struct {
	db db.DBTX
}

func NewOrderRepository(dbtx db.DBTX) *OrderRepository {
	return &OrderRepository{db: dbtx}
}

func (r *OrderRepository) Create(ctx context.Context, o *order.Order) error {
	contact := o.Contact()
	_, err := r.db.Exec(ctx,
		`INSERT INTO orders (
			id, order_no, user_id, cruise_id, voyage_id, hold_set_id, status,
			total_cents, discount_cents, paid_cents,
			contact_name, contact_phone, contact_email,
			expire_at, created_at, updated_at
		) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$15)`,
		o.ID(), o.OrderNo(), o.UserID(), o.CruiseID(), o.VoyageID(), o.HoldSetID(),
		o.Status().String(), o.TotalCents(), o.DiscountCents(), o.PaidCents(),
		contact.Name, contact.Phone, contact.Email,
		o.ExpireAt(), o.CreatedAt(),
	)
	if err != nil {
		if infra.IsUniqueViolation(err) {
			return infra.WrapRepoErr("order already exists", err, infra.KindDuplicateKey)
		}
		return infra.WrapRepoErr("failed to create order", err)
	}

	for _, it := range o.Items() {
		_, err := r.db.Exec(ctx,
			`INSERT INTO order_items (
				id, order_id, cabin_type_id, cabin_id, voyage_id,
				quantity, adult_count, child_count, infant_count, subtotal_cents
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10)`,
			it.ID, o.ID(), it.CabinTypeID, it.CabinID, it.VoyageID,
			it.Quantity, it.AdultCount, it.ChildCount, it.InfantCount, it.SubtotalCents,
		)
		if err != nil {
			return infra.WrapRepoErr("failed to create order item", err)
		}
	}

	if len(o.Passengers()) > 0 {
		if err := r.insertPassengers(ctx, o.ID(), o.Passengers()); err != nil {
			return err
		}
	}
	return nil
}

const orderColumns = `
	id, order_no, user_id, cruise_id, voyage_id, hold_set_id, status,
	total_cents, discount_cents, paid_cents,
	contact_name, contact_phone, contact_email,
	expire_at, paid_at, confirmed_at,
	cancel_reason, refund_reason, refunded_at,
	created_at, updated_at`

func (r *OrderRepository) FindByID(ctx context.Context, id uuid.UUID) (*order.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE id = $1`, id)
}

func (r *OrderRepository) FindByOrderNo(ctx context.Context, orderNo string) (*order.Order, error) {
	return r.findOne(ctx, `SELECT `+orderColumns+` FROM orders WHERE order_no = $1`, orderNo)
}

func (r *OrderRepository) findOne(ctx context.Context, sql string, arg any) (*order.Order, error) {
	var (
		id                         uuid.UUID
		orderNo                    string
		userID                     *uuid.UUID
		cruiseID, voyageID         uuid.UUID
		holdSetID                  uuid.UUID
		status                     string
		totalCents, discountCents  int64
		paidCents                  int64
		contactName, contactPhone  string
		contactEmail               string
		expireAt                   time.Time
		paidAt, confirmedAt        *time.Time
		cancelReason, refundReason *string
		refundedAt                 *time.Time
		createdAt, updatedAt       time.Time
	)
	err := r.db.QueryRow(ctx, sql, arg).Scan(
		&id, &orderNo, &userID, &cruiseID, &voyageID, &holdSetID, &status,
		&totalCents, &discountCents, &paidCents,
		&contactName, &contactPhone, &contactEmail,
		&expireAt, &paidAt, &confirmedAt,
		&cancelReason, &refundReason, &refundedAt,
		&createdAt, &updatedAt,
	)
	if err != nil {
		if infra.IsNoRows(err) {
			return nil, infra.WrapRepoErr("order not found", err, infra.KindNotFound)
		}
		return nil, infra.WrapRepoErr("failed to find order", err)
	}

	items, err := r.findItems(ctx, id)
	if err != nil {
		return nil, err
	}
	passengers, err := r.findPassengers(ctx, id)
	if err != nil {
		return nil, err
	}

	return order.ReconstructOrder(
		id, orderNo, userID, cruiseID, voyageID, holdSetID,
		order.Status(status), totalCents, discountCents, paidCents,
		order.Contact{Name: contactName, Phone: contactPhone, Email: contactEmail},
		items, passengers, expireAt, paidAt, confirmedAt,
		deref(cancelReason), deref(refundReason), refundedAt,
		createdAt, updatedAt,
	), nil
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func (r *OrderRepository) findItems(ctx context.Context, orderID uuid.UUID) ([]order.Item, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, cabin_type_id, cabin_id, voyage_id,
		        quantity, adult_count, child_count, infant_count, subtotal_cents
		 FROM order_items WHERE order_id = $1 ORDER BY cabin_type_id`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find order items", err)
	}
	defer rows.Close()

	var items []order.Item
	for rows.Next() {
		var it order.Item
		if err := rows.Scan(
			&it.ID, &it.CabinTypeID, &it.CabinID, &it.VoyageID,
			&it.Quantity, &it.AdultCount, &it.ChildCount, &it.InfantCount, &it.SubtotalCents,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order item", err)
		}
		items = append(items, it)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order items", err)
	}
	return items, nil
}

func (r *OrderRepository) findPassengers(ctx context.Context, orderID uuid.UUID) ([]order.Passenger, error) {
	rows, err := r.db.Query(ctx,
		`SELECT id, order_item_id, name, surname, gender, birth_date,
		        nationality, id_number, passport_number, phone, type
		 FROM order_passengers WHERE order_id = $1 ORDER BY id`,
		orderID,
	)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to find passengers", err)
	}
	defer rows.Close()

	var passengers []order.Passenger
	for rows.Next() {
		var p order.Passenger
		var typ string
		if err := rows.Scan(
			&p.ID, &p.OrderItemID, &p.Name, &p.Surname, &p.Gender, &p.BirthDate,
			&p.Nationality, &p.IDNumber, &p.PassportNumber, &p.Phone, &typ,
		); err != nil {
			return nil, infra.WrapRepoErr("failed to scan passenger", err)
		}
		p.Type = order.PassengerType(typ)
		passengers = append(passengers, p)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate passengers", err)
	}
	return passengers, nil
}

func (r *OrderRepository) MarkPaid(ctx context.Context, id uuid.UUID, paidCents int64, paidAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET status = 'paid', paid_cents = $2, paid_at = $3, updated_at = now()
		 WHERE id = $1 AND status = 'pending_payment'`,
		id, paidCents, paidAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark order paid", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepository) MarkConfirmed(ctx context.Context, id uuid.UUID, confirmedAt time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET status = 'confirmed', confirmed_at = $2, updated_at = now()
		 WHERE id = $1 AND status = 'paid'`,
		id, confirmedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark order confirmed", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepository) MarkCancelled(ctx context.Context, id uuid.UUID, from order.Status, reason string) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET status = 'cancelled', cancel_reason = $3, updated_at = now()
		 WHERE id = $1 AND status = $2`,
		id, from.String(), reason,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to mark order cancelled", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepository) SetRefundStatus(ctx context.Context, id uuid.UUID, from, to order.Status, reason string, refundedAt *time.Time) (bool, error) {
	tag, err := r.db.Exec(ctx,
		`UPDATE orders
		 SET status = $3, refund_reason = $4, refunded_at = COALESCE($5, refunded_at), updated_at = now()
		 WHERE id = $1 AND status = $2`,
		id, from.String(), to.String(), reason, refundedAt,
	)
	if err != nil {
		return false, infra.WrapRepoErr("failed to set refund status", err)
	}
	return tag.RowsAffected() > 0, nil
}

func (r *OrderRepository) ReplacePassengers(ctx context.Context, orderID uuid.UUID, passengers []order.Passenger) error {
	if _, err := r.db.Exec(ctx, `DELETE FROM order_passengers WHERE order_id = $1`, orderID); err != nil {
		return infra.WrapRepoErr("failed to clear passengers", err)
	}
	return r.insertPassengers(ctx, orderID, passengers)
}

func (r *OrderRepository) insertPassengers(ctx context.Context, orderID uuid.UUID, passengers []order.Passenger) error {
	for _, p := range passengers {
		_, err := r.db.Exec(ctx,
			`INSERT INTO order_passengers (
				id, order_id, order_item_id, name, surname, gender, birth_date,
				nationality, id_number, passport_number, phone, type
			) VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12)`,
			p.ID, orderID, p.OrderItemID, p.Name, p.Surname, p.Gender, p.BirthDate,
			p.Nationality, p.IDNumber, p.PassportNumber, p.Phone, string(p.Type),
		)
		if err != nil {
			return infra.WrapRepoErr("failed to insert passenger", err)
		}
	}
	return nil
}

func (r *OrderRepository) FindExpiredUnpaid(ctx context.Context, now time.Time, limit int) ([]*order.Order, error) {
	return r.findIDs(ctx,
		`SELECT id FROM orders
		 WHERE status IN ('created', 'pending_payment') AND expire_at < $1
		 ORDER BY expire_at
		 LIMIT $2`,
		now, limit,
	)
}

// FindPassengerOverdue matches paid orders whose manifest has fewer records
// than the berths its items require.
func (r *OrderRepository) FindPassengerOverdue(ctx context.Context, cutoff time.Time, limit int) ([]*order.Order, error) {
	return r.findIDs(ctx,
		`SELECT o.id FROM orders o
		 WHERE o.status = 'paid' AND o.paid_at < $1
		   AND (SELECT COALESCE(SUM(adult_count + child_count + infant_count), 0)
		        FROM order_items WHERE order_id = o.id)
		     > (SELECT COUNT(*) FROM order_passengers WHERE order_id = o.id)
		 ORDER BY o.paid_at
		 LIMIT $2`,
		cutoff, limit,
	)
}

func (r *OrderRepository) findIDs(ctx context.Context, sql string, args ...any) ([]*order.Order, error) {
	rows, err := r.db.Query(ctx, sql, args...)
	if err != nil {
		return nil, infra.WrapRepoErr("failed to query order ids", err)
	}
	defer rows.Close()

	var ids []uuid.UUID
	for rows.Next() {
		var id uuid.UUID
		if err := rows.Scan(&id); err != nil {
			return nil, infra.WrapRepoErr("failed to scan order id", err)
		}
		ids = append(ids, id)
	}
	if err := rows.Err(); err != nil {
		return nil, infra.WrapRepoErr("failed to iterate order ids", err)
	}

	orders := make([]*order.Order, 0, len(ids))
	for _, id := range ids {
		o, err := r.FindByID(ctx, id)
		if err != nil {
			if infra.IsKind(err, infra.KindNotFound) {
				continue
			}
			return nil, err
		}
		orders = append(orders, o)
	}
	return orders, nil
}
