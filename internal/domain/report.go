package domain

import "time"

// DailyReport - отчет о работе парковки за день
type DailyReport struct {
	Date             time.Time `json:"date"`
	VehicleCount     int       `json:"vehicle_count"`
	AverageStayHours float64   `json:"average_stay_hours"`
	Revenue          float64   `json:"revenue"`
	AverageOccupancy float64   `json:"average_occupancy"` // Доля от 0 до 1
}

// Receipt - квитанция о последней оплате автомобиля
type Receipt struct {
	Plate     string    `json:"plate"`
	EntryTime time.Time `json:"entry_time"`
	ExitTime  time.Time `json:"exit_time"`
	Total     float64   `json:"total"`
}

// ReceiptFromPayment строит квитанцию по оплате
func ReceiptFromPayment(p *Payment) *Receipt {
	return &Receipt{
		Plate:     p.Plate,
		EntryTime: p.EntryTime,
		ExitTime:  p.ExitTime,
		Total:     p.Fee,
	}
}
