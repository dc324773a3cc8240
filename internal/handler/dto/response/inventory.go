package response

import (
	"cruise-booking/internal/usecase/queries"

	"github.com/google/uuid"
	"github.com/jinzhu/copier"
)

type InventoryRowResponse struct {
	CabinTypeID   uuid.UUID `json:"cabinTypeId"`
	CabinTypeName string    `json:"cabinTypeName"`
	VoyageID      uuid.UUID `json:"voyageId"`
	Total         int       `json:"total"`
	Sold          int       `json:"sold"`
	Locked        int       `json:"locked"`
	Available     int       `json:"available"`
	LowInventory  bool      `json:"lowInventory"`
}

type VoyageInventoryResponse struct {
	VoyageID      uuid.UUID              `json:"voyageId"`
	BookingStatus string                 `json:"bookingStatus"`
	Rows          []InventoryRowResponse `json:"rows"`
}

func FromVoyageInventoryView(rm *queries.VoyageInventoryView) *VoyageInventoryResponse {
	resp := &VoyageInventoryResponse{}
	_ = copier.Copy(resp, rm)
	return resp
}
