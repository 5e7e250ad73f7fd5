package parking

import (
	"sort"
	"time"

	"github.com/frontandrew/parking/internal/domain"
)

// EntryRegistry хранит активные записи о въезде по номеру автомобиля.
// Инварианты: одна запись на номер, одна запись на место.
// Не потокобезопасен: синхронизацию обеспечивает Lifecycle.
type EntryRegistry struct {
	byPlate map[string]*domain.EntryRecord
	bySpot  map[int]string
}

// NewEntryRegistry создает пустой реестр
func NewEntryRegistry() *EntryRegistry {
	return &EntryRegistry{
		byPlate: make(map[string]*domain.EntryRecord),
		bySpot:  make(map[int]string),
	}
}

// Register создает и сохраняет запись о въезде с временем at
func (r *EntryRegistry) Register(vehicle *domain.Vehicle, spotID int, at time.Time) (*domain.EntryRecord, error) {
	if vehicle == nil {
		return nil, domain.ErrMissingVehicle
	}
	if _, ok := r.byPlate[vehicle.Plate]; ok {
		return nil, domain.ErrAlreadyRegistered
	}
	if !domain.ValidSpot(spotID) {
		return nil, domain.ErrInvalidSpot
	}
	if r.SpotTaken(spotID) {
		return nil, domain.ErrSpotOccupied
	}

	record, err := domain.NewEntryRecord(vehicle, spotID, at)
	if err != nil {
		return nil, err
	}

	r.put(record)
	return record, nil
}

// restore кладет в реестр уже существующую запись (восстановление после рестарта)
func (r *EntryRegistry) restore(record *domain.EntryRecord) error {
	if record == nil || record.Vehicle == nil {
		return domain.ErrMissingVehicle
	}
	if _, ok := r.byPlate[record.Vehicle.Plate]; ok {
		return domain.ErrAlreadyRegistered
	}
	if !domain.ValidSpot(record.SpotID) {
		return domain.ErrInvalidSpot
	}
	if r.SpotTaken(record.SpotID) {
		return domain.ErrSpotOccupied
	}

	r.put(record)
	return nil
}

func (r *EntryRegistry) put(record *domain.EntryRecord) {
	r.byPlate[record.Vehicle.Plate] = record
	r.bySpot[record.SpotID] = record.Vehicle.Plate
}

// Find возвращает активную запись по номеру
func (r *EntryRegistry) Find(plate string) (*domain.EntryRecord, bool) {
	record, ok := r.byPlate[plate]
	return record, ok
}

// Remove удаляет и возвращает запись по номеру
func (r *EntryRegistry) Remove(plate string) (*domain.EntryRecord, error) {
	record, ok := r.byPlate[plate]
	if !ok {
		return nil, domain.ErrNotRegistered
	}

	delete(r.byPlate, plate)
	delete(r.bySpot, record.SpotID)
	return record, nil
}

// SpotTaken проверяет, занято ли место
func (r *EntryRegistry) SpotTaken(spotID int) bool {
	_, ok := r.bySpot[spotID]
	return ok
}

// NextFreeSpot возвращает наименьший свободный номер места
func (r *EntryRegistry) NextFreeSpot() (int, bool) {
	for spot := domain.MinSpotID; spot <= domain.MaxSpotID; spot++ {
		if !r.SpotTaken(spot) {
			return spot, true
		}
	}
	return 0, false
}

// List возвращает активные записи, отсортированные по номеру места
func (r *EntryRegistry) List() []*domain.EntryRecord {
	records := make([]*domain.EntryRecord, 0, len(r.byPlate))
	for _, record := range r.byPlate {
		records = append(records, record)
	}
	sort.Slice(records, func(i, j int) bool {
		return records[i].SpotID < records[j].SpotID
	})
	return records
}

// Len возвращает количество активных записей
func (r *EntryRegistry) Len() int {
	return len(r.byPlate)
}
