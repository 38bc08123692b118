package models

// OfficialStation is one station record as served by the open-data
// endpoint, before normalization into a GasStation.
type OfficialStation struct {
	PermitId  string   `json:"permit_id"`
	Name      string   `json:"name"`
	Brand     string   `json:"brand"`
	Address   string   `json:"address"`
	City      string   `json:"city"`
	State     string   `json:"state"`
	Latitude  float64  `json:"latitude,string"`
	Longitude float64  `json:"longitude,string"`
	Products  []string `json:"products"`
}

type OfficialStationsResponse struct {
	Success bool              `json:"success"`
	Data    []OfficialStation `json:"data"`
	Message string            `json:"message,omitempty"`
	Page    int               `json:"page"`
	Pages   int               `json:"pages"`
}

// ToGasStation converts the raw open-data record into the persisted shape.
// The caller supplies the normalized brand name.
func (os *OfficialStation) ToGasStation(brand string) GasStation {
	gs := GasStation{
		Id:        os.PermitId,
		Name:      os.Name,
		Brand:     brand,
		Address:   os.Address,
		City:      os.City,
		State:     os.State,
		Latitude:  os.Latitude,
		Longitude: os.Longitude,
		IsActive:  true,
	}
	for _, product := range os.Products {
		if ft, ok := ParseFuelType(product); ok {
			switch ft {
			case FuelTypeMagna:
				gs.Services.Magna = true
			case FuelTypePremium:
				gs.Services.Premium = true
			case FuelTypeDiesel:
				gs.Services.Diesel = true
			}
		}
	}
	return gs
}
