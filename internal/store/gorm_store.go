package store

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	domain "github.com/smartcutlabs/salon-booking/internal/domain/appointment"
	"github.com/smartcutlabs/salon-booking/internal/models"
)

// GormStore implements Store on a gorm database (sqlite in-memory for the
// reference deployment, postgres in production).
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// --------------------------------------------------
// Users
// --------------------------------------------------

func (s *GormStore) CreateUser(ctx context.Context, in CreateUserInput) (*models.User, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(in.Password), bcrypt.DefaultCost)
	if err != nil {
		return nil, err
	}

	role := in.Role
	if role == "" {
		role = models.RoleCustomer
	}

	user := models.User{
		Email:        in.Email,
		PasswordHash: string(hashed),
		Name:         in.Name,
		Phone:        in.Phone,
		Role:         role,
	}

	if err := s.db.WithContext(ctx).Create(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByEmail(ctx context.Context, email string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).Where("email = ?", email).First(&user).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

func (s *GormStore) GetUserByID(ctx context.Context, id string) (*models.User, error) {
	var user models.User
	err := s.db.WithContext(ctx).First(&user, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// ValidateUser returns (nil, nil) for an unknown email or a password
// mismatch; bad credentials are a result, never an error.
func (s *GormStore) ValidateUser(ctx context.Context, email, password string) (*models.User, error) {
	user, err := s.GetUserByEmail(ctx, email)
	if err != nil || user == nil {
		return nil, err
	}

	if bcrypt.CompareHashAndPassword([]byte(user.PasswordHash), []byte(password)) != nil {
		return nil, nil
	}
	return user, nil
}

func (s *GormStore) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("created_at ASC, id ASC").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

// --------------------------------------------------
// Salons
// --------------------------------------------------

func (s *GormStore) CreateSalon(ctx context.Context, in CreateSalonInput) (*models.Salon, error) {
	salon := models.Salon{
		OwnerID:     in.OwnerID,
		Name:        in.Name,
		Description: in.Description,
		Address:     in.Address,
		Phone:       in.Phone,
		Email:       in.Email,
		Rating:      decimal.Zero,
		IsActive:    true,
		IsApproved:  false,
	}

	if err := s.db.WithContext(ctx).Create(&salon).Error; err != nil {
		return nil, err
	}
	return &salon, nil
}

func (s *GormStore) ListApprovedSalons(ctx context.Context) ([]models.Salon, error) {
	var salons []models.Salon
	if err := s.db.WithContext(ctx).
		Where("is_approved = ? AND is_active = ?", true, true).
		Order("created_at ASC, id ASC").
		Find(&salons).Error; err != nil {
		return nil, err
	}
	return salons, nil
}

func (s *GormStore) GetSalonByID(ctx context.Context, id string) (*models.Salon, error) {
	var salon models.Salon
	err := s.db.WithContext(ctx).First(&salon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &salon, nil
}

func (s *GormStore) SetSalonApproval(ctx context.Context, id string, approved bool) error {
	var salon models.Salon
	err := s.db.WithContext(ctx).First(&salon, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	salon.IsApproved = approved
	return s.db.WithContext(ctx).Save(&salon).Error
}

// --------------------------------------------------
// Barbers
// --------------------------------------------------

func (s *GormStore) CreateBarber(ctx context.Context, in CreateBarberInput) (*models.Barber, error) {
	barber := models.Barber{
		UserID:       in.UserID,
		SalonID:      in.SalonID,
		Title:        in.Title,
		Bio:          in.Bio,
		Specialties:  datatypes.NewJSONSlice(in.Specialties),
		Experience:   in.Experience,
		Rating:       decimal.Zero,
		IsAvailable:  true,
		WorkingHours: datatypes.NewJSONType(in.WorkingHours),
	}

	if err := s.db.WithContext(ctx).Create(&barber).Error; err != nil {
		return nil, err
	}
	return &barber, nil
}

func (s *GormStore) GetBarberByID(ctx context.Context, id string) (*models.Barber, error) {
	var barber models.Barber
	err := s.db.WithContext(ctx).First(&barber, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &barber, nil
}

func (s *GormStore) GetBarberByUserID(ctx context.Context, userID string) (*models.Barber, error) {
	var barber models.Barber
	err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at ASC").
		First(&barber).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &barber, nil
}

func (s *GormStore) ListBarbersBySalon(ctx context.Context, salonID string) ([]models.Barber, error) {
	var barbers []models.Barber
	if err := s.db.WithContext(ctx).
		Where("salon_id = ?", salonID).
		Order("created_at ASC, id ASC").
		Find(&barbers).Error; err != nil {
		return nil, err
	}
	return barbers, nil
}

func (s *GormStore) SetBarberAvailability(ctx context.Context, id string, available bool) error {
	var barber models.Barber
	err := s.db.WithContext(ctx).First(&barber, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	barber.IsAvailable = available
	return s.db.WithContext(ctx).Save(&barber).Error
}

// --------------------------------------------------
// Services
// --------------------------------------------------

func (s *GormStore) CreateService(ctx context.Context, in CreateServiceInput) (*models.Service, error) {
	service := models.Service{
		BarberID:    in.BarberID,
		Name:        in.Name,
		Description: in.Description,
		DurationMin: in.DurationMin,
		Price:       in.Price,
		IsActive:    true,
	}

	if err := s.db.WithContext(ctx).Create(&service).Error; err != nil {
		return nil, err
	}
	return &service, nil
}

func (s *GormStore) ListServicesByBarber(ctx context.Context, barberID string) ([]models.Service, error) {
	var services []models.Service
	if err := s.db.WithContext(ctx).
		Where("barber_id = ? AND is_active = ?", barberID, true).
		Order("name ASC").
		Find(&services).Error; err != nil {
		return nil, err
	}
	return services, nil
}

func (s *GormStore) GetServiceByID(ctx context.Context, id string) (*models.Service, error) {
	var service models.Service
	err := s.db.WithContext(ctx).First(&service, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &service, nil
}

// --------------------------------------------------
// Appointments
// --------------------------------------------------

// CreateAppointment books a slot. Status is always pending regardless of
// input, TotalPrice is the caller-supplied snapshot, and the barber's
// pending/confirmed schedule is checked for overlap inside the transaction.
func (s *GormStore) CreateAppointment(ctx context.Context, in CreateAppointmentInput) (*models.Appointment, error) {
	var created models.Appointment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var service models.Service
		if err := tx.First(&service, "id = ?", in.ServiceID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		start := in.AppointmentDate
		end := start.Add(time.Duration(service.DurationMin) * time.Minute)

		var conflicts int64
		if err := tx.Model(&models.Appointment{}).
			Where(
				"barber_id = ? AND status IN ? AND appointment_date < ? AND end_time > ?",
				in.BarberID,
				[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
				end,
				start,
			).
			Count(&conflicts).Error; err != nil {
			return err
		}
		if conflicts > 0 {
			return ErrTimeConflict
		}

		ap := models.Appointment{
			CustomerID:      in.CustomerID,
			BarberID:        in.BarberID,
			ServiceID:       in.ServiceID,
			AppointmentDate: start,
			EndTime:         end,
			Status:          string(domain.InitialStatus()),
			TotalPrice:      in.TotalPrice,
			Notes:           in.Notes,
		}

		if err := tx.Create(&ap).Error; err != nil {
			return err
		}

		created = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *GormStore) ListAppointmentsByCustomer(ctx context.Context, customerID string) ([]models.Appointment, error) {
	var aps []models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Barber.Salon").
		Preload("Service").
		Where("customer_id = ?", customerID).
		Order("appointment_date ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	for i := range aps {
		if err := checkJoined(&aps[i], false); err != nil {
			return nil, err
		}
	}
	return aps, nil
}

func (s *GormStore) ListAppointmentsByBarber(ctx context.Context, barberID string) ([]models.Appointment, error) {
	var aps []models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Service").
		Where("barber_id = ?", barberID).
		Order("appointment_date ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	for i := range aps {
		if aps[i].Customer.ID == "" {
			return nil, InconsistentError{Entity: "user", ID: aps[i].CustomerID}
		}
		if aps[i].Service.ID == "" {
			return nil, InconsistentError{Entity: "service", ID: aps[i].ServiceID}
		}
	}
	return aps, nil
}

func (s *GormStore) ListAllAppointments(ctx context.Context) ([]models.Appointment, error) {
	var aps []models.Appointment
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Preload("Barber.Salon").
		Preload("Service").
		Order("appointment_date ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	for i := range aps {
		if err := checkJoined(&aps[i], true); err != nil {
			return nil, err
		}
	}
	return aps, nil
}

// checkJoined surfaces missing join targets as InconsistentError instead of
// handing callers zero-valued embedded records.
func checkJoined(ap *models.Appointment, withCustomer bool) error {
	if withCustomer && ap.Customer.ID == "" {
		return InconsistentError{Entity: "user", ID: ap.CustomerID}
	}
	if ap.Barber.ID == "" {
		return InconsistentError{Entity: "barber", ID: ap.BarberID}
	}
	if ap.Barber.Salon.ID == "" {
		return InconsistentError{Entity: "salon", ID: ap.Barber.SalonID}
	}
	if ap.Service.ID == "" {
		return InconsistentError{Entity: "service", ID: ap.ServiceID}
	}
	return nil
}

func (s *GormStore) ListBarberAppointmentsBetween(ctx context.Context, barberID string, start, end time.Time) ([]domain.Interval, error) {
	var aps []models.Appointment
	if err := s.db.WithContext(ctx).
		Select("appointment_date", "end_time").
		Where(
			"barber_id = ? AND status IN ? AND appointment_date < ? AND end_time > ?",
			barberID,
			[]string{string(domain.StatusPending), string(domain.StatusConfirmed)},
			end,
			start,
		).
		Order("appointment_date ASC").
		Find(&aps).Error; err != nil {
		return nil, err
	}

	intervals := make([]domain.Interval, 0, len(aps))
	for _, ap := range aps {
		intervals = append(intervals, domain.Interval{Start: ap.AppointmentDate, End: ap.EndTime})
	}
	return intervals, nil
}

func (s *GormStore) GetAppointmentByID(ctx context.Context, id string) (*models.Appointment, error) {
	var ap models.Appointment
	err := s.db.WithContext(ctx).First(&ap, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &ap, nil
}

// UpdateAppointmentStatus applies the lifecycle transition table; illegal
// moves are rejected with domain.InvalidTransitionError and leave the stored
// status untouched.
func (s *GormStore) UpdateAppointmentStatus(ctx context.Context, id string, status domain.Status) (*models.Appointment, error) {
	var updated models.Appointment

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var ap models.Appointment
		if err := tx.First(&ap, "id = ?", id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ErrNotFound
			}
			return err
		}

		current, err := domain.ParseStatus(ap.Status)
		if err != nil {
			return err
		}
		if err := domain.Transition(current, status); err != nil {
			return err
		}

		ap.Status = string(status)
		if err := tx.Save(&ap).Error; err != nil {
			return err
		}

		updated = ap
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &updated, nil
}

// --------------------------------------------------
// Reviews
// --------------------------------------------------

// CreateReview stores the review and recomputes the barber's rating average
// and review count in the same transaction.
func (s *GormStore) CreateReview(ctx context.Context, in CreateReviewInput) (*models.Review, error) {
	var created models.Review

	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		review := models.Review{
			CustomerID:    in.CustomerID,
			BarberID:      in.BarberID,
			AppointmentID: in.AppointmentID,
			Rating:        in.Rating,
			Comment:       in.Comment,
		}

		if err := tx.Create(&review).Error; err != nil {
			return err
		}

		var agg struct {
			Count int64
			Total int64
		}
		if err := tx.Model(&models.Review{}).
			Select("COUNT(*) AS count, COALESCE(SUM(rating), 0) AS total").
			Where("barber_id = ?", in.BarberID).
			Scan(&agg).Error; err != nil {
			return err
		}

		rating := decimal.Zero
		if agg.Count > 0 {
			rating = decimal.NewFromInt(agg.Total).
				Div(decimal.NewFromInt(agg.Count)).
				Round(2)
		}

		if err := tx.Model(&models.Barber{}).
			Where("id = ?", in.BarberID).
			Updates(map[string]any{
				"rating":       rating,
				"review_count": agg.Count,
			}).Error; err != nil {
			return err
		}

		created = review
		return nil
	})
	if err != nil {
		return nil, err
	}

	return &created, nil
}

func (s *GormStore) ListReviewsByBarber(ctx context.Context, barberID string) ([]models.Review, error) {
	var reviews []models.Review
	if err := s.db.WithContext(ctx).
		Preload("Customer").
		Where("barber_id = ?", barberID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		return nil, err
	}

	for i := range reviews {
		if reviews[i].Customer.ID == "" {
			return nil, InconsistentError{Entity: "user", ID: reviews[i].CustomerID}
		}
	}
	return reviews, nil
}

// --------------------------------------------------
// Admin
// --------------------------------------------------

func (s *GormStore) GetStats(ctx context.Context) (*Stats, error) {
	var stats Stats
	db := s.db.WithContext(ctx)

	if err := db.Model(&models.User{}).Count(&stats.TotalUsers).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Salon{}).
		Where("is_approved = ?", true).
		Count(&stats.TotalSalons).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Appointment{}).Count(&stats.TotalAppointments).Error; err != nil {
		return nil, err
	}
	if err := db.Model(&models.Salon{}).
		Where("is_approved = ?", false).
		Count(&stats.PendingSalons).Error; err != nil {
		return nil, err
	}

	return &stats, nil
}

// Compile-time check
var _ Store = (*GormStore)(nil)
