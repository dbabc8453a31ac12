package service

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/Freeeeeet/hospital_scheduler/internal/model"
	"github.com/Freeeeeet/hospital_scheduler/internal/repository"
)

// memState табличное состояние in-memory хранилища
type memState struct {
	users        map[int64]model.User
	departments  map[int64]model.Department
	doctors      map[int64]model.Doctor
	patients     map[int64]model.Patient
	slots        map[int64]model.Slot
	appointments map[int64]model.Appointment
	nextID       int64
}

func (s *memState) clone() *memState {
	c := &memState{
		users:        make(map[int64]model.User, len(s.users)),
		departments:  make(map[int64]model.Department, len(s.departments)),
		doctors:      make(map[int64]model.Doctor, len(s.doctors)),
		patients:     make(map[int64]model.Patient, len(s.patients)),
		slots:        make(map[int64]model.Slot, len(s.slots)),
		appointments: make(map[int64]model.Appointment, len(s.appointments)),
		nextID:       s.nextID,
	}
	for k, v := range s.users {
		v.Roles = append([]model.Role(nil), v.Roles...)
		c.users[k] = v
	}
	for k, v := range s.departments {
		c.departments[k] = v
	}
	for k, v := range s.doctors {
		c.doctors[k] = v
	}
	for k, v := range s.patients {
		c.patients[k] = v
	}
	for k, v := range s.slots {
		c.slots[k] = v
	}
	for k, v := range s.appointments {
		c.appointments[k] = v
	}
	return c
}

// memStore реализация Store в памяти. InTx сериализует транзакции
// и откатывает состояние, если fn вернула ошибку.
type memStore struct {
	mu    sync.Mutex
	state *memState
	errs  map[string]error

	txCount int
}

func newMemStore() *memStore {
	return &memStore{
		state: (&memState{}).clone(),
		errs:  map[string]error{},
	}
}

func (m *memStore) Repos() Repos {
	return m.repos(false)
}

func (m *memStore) InTx(ctx context.Context, fn func(tx Repos) error) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	m.txCount++
	snapshot := m.state.clone()

	if err := fn(m.repos(true)); err != nil {
		m.state = snapshot
		return err
	}
	return nil
}

// failOn заставляет операцию op (например "Slots.CreateBatch") вернуть err
func (m *memStore) failOn(op string, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.errs[op] = err
}

func (m *memStore) repos(inTx bool) Repos {
	c := &memConn{store: m, inTx: inTx}
	return Repos{
		Users:        memUsers{c},
		Departments:  memDepartments{c},
		Doctors:      memDoctors{c},
		Patients:     memPatients{c},
		Slots:        memSlots{c},
		Appointments: memAppointments{c},
	}
}

// Тестовые хелперы наполнения

func (m *memStore) addUser(email string, roles ...model.Role) int64 {
	var id int64
	_ = m.InTx(context.Background(), func(tx Repos) error {
		u := &model.User{Email: email, Roles: roles}
		_ = tx.Users.Create(context.Background(), u)
		id = u.ID
		return nil
	})
	return id
}

func (m *memStore) addPatient(userID int64) int64 {
	p := &model.Patient{UserID: userID}
	_ = m.Repos().Patients.Create(context.Background(), p)
	return p.ID
}

func (m *memStore) addDoctor(userID int64) int64 {
	d := &model.Doctor{UserID: userID}
	_ = m.Repos().Doctors.Create(context.Background(), d)
	return d.ID
}

// setSlotStatus меняет статус слота в обход сервиса
func (m *memStore) setSlotStatus(id int64, status model.SlotStatus) {
	m.mu.Lock()
	defer m.mu.Unlock()
	slot := m.state.slots[id]
	slot.Status = status
	m.state.slots[id] = slot
}

func (m *memStore) addSlot(doctorID int64, at time.Time, status model.SlotStatus) int64 {
	s := &model.Slot{DoctorID: doctorID, SlotDate: at, Status: status}
	_, _ = m.Repos().Slots.CreateBatch(context.Background(), []*model.Slot{s})
	return s.ID
}

func (m *memStore) slot(id int64) model.Slot {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.state.slots[id]
}

func (m *memStore) appointment(id int64) (model.Appointment, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	a, ok := m.state.appointments[id]
	return a, ok
}

func (m *memStore) count(table string) int {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch table {
	case "slots":
		return len(m.state.slots)
	case "appointments":
		return len(m.state.appointments)
	case "patients":
		return len(m.state.patients)
	case "doctors":
		return len(m.state.doctors)
	}
	return 0
}

type memConn struct {
	store *memStore
	inTx  bool
}

// with выполняет fn над состоянием. Вне транзакции берёт блокировку сам.
func (c *memConn) with(op string, fn func(s *memState) error) error {
	if !c.inTx {
		c.store.mu.Lock()
		defer c.store.mu.Unlock()
	}
	if err := c.store.errs[op]; err != nil {
		return err
	}
	return fn(c.store.state)
}

func (s *memState) id() int64 {
	s.nextID++
	return s.nextID
}

type memUsers struct{ c *memConn }

func (r memUsers) Create(ctx context.Context, user *model.User) error {
	return r.c.with("Users.Create", func(s *memState) error {
		for _, u := range s.users {
			if u.Email == user.Email {
				return repository.ErrDuplicate
			}
		}
		user.ID = s.id()
		user.CreatedAt = time.Now()
		stored := *user
		stored.Roles = append([]model.Role(nil), user.Roles...)
		s.users[user.ID] = stored
		return nil
	})
}

func (r memUsers) GetByEmail(ctx context.Context, email string) (*model.User, error) {
	var found *model.User
	err := r.c.with("Users.GetByEmail", func(s *memState) error {
		for _, u := range s.users {
			if u.Email == email {
				u.Roles = append([]model.Role(nil), u.Roles...)
				found = &u
			}
		}
		return nil
	})
	return found, err
}

func (r memUsers) GetByID(ctx context.Context, id int64) (*model.User, error) {
	var found *model.User
	err := r.c.with("Users.GetByID", func(s *memState) error {
		if u, ok := s.users[id]; ok {
			u.Roles = append([]model.Role(nil), u.Roles...)
			found = &u
		}
		return nil
	})
	return found, err
}

func (r memUsers) AddRole(ctx context.Context, userID int64, role model.Role) error {
	return r.c.with("Users.AddRole", func(s *memState) error {
		u, ok := s.users[userID]
		if !ok {
			return nil
		}
		if !u.HasRole(role) {
			u.Roles = append(append([]model.Role(nil), u.Roles...), role)
			s.users[userID] = u
		}
		return nil
	})
}

type memDepartments struct{ c *memConn }

func (r memDepartments) Create(ctx context.Context, department *model.Department) error {
	return r.c.with("Departments.Create", func(s *memState) error {
		for _, d := range s.departments {
			if d.Name == department.Name {
				return repository.ErrDuplicate
			}
		}
		department.ID = s.id()
		s.departments[department.ID] = *department
		return nil
	})
}

func (r memDepartments) GetByID(ctx context.Context, id int64) (*model.Department, error) {
	var found *model.Department
	err := r.c.with("Departments.GetByID", func(s *memState) error {
		if d, ok := s.departments[id]; ok {
			found = &d
		}
		return nil
	})
	return found, err
}

func (r memDepartments) List(ctx context.Context) ([]*model.Department, error) {
	var out []*model.Department
	err := r.c.with("Departments.List", func(s *memState) error {
		for _, d := range s.departments {
			d := d
			out = append(out, &d)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].Name < out[j].Name })
		return nil
	})
	return out, err
}

type memDoctors struct{ c *memConn }

func (r memDoctors) Create(ctx context.Context, doctor *model.Doctor) error {
	return r.c.with("Doctors.Create", func(s *memState) error {
		for _, d := range s.doctors {
			if d.UserID == doctor.UserID {
				return repository.ErrDuplicate
			}
		}
		doctor.ID = s.id()
		doctor.CreatedAt = time.Now()
		s.doctors[doctor.ID] = *doctor
		return nil
	})
}

func (r memDoctors) GetByID(ctx context.Context, id int64) (*model.Doctor, error) {
	var found *model.Doctor
	err := r.c.with("Doctors.GetByID", func(s *memState) error {
		if d, ok := s.doctors[id]; ok {
			found = &d
		}
		return nil
	})
	return found, err
}

func (r memDoctors) List(ctx context.Context) ([]*model.Doctor, error) {
	var out []*model.Doctor
	err := r.c.with("Doctors.List", func(s *memState) error {
		for _, d := range s.doctors {
			d := d
			out = append(out, &d)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

type memPatients struct{ c *memConn }

func (r memPatients) Create(ctx context.Context, patient *model.Patient) error {
	return r.c.with("Patients.Create", func(s *memState) error {
		for _, p := range s.patients {
			if p.UserID == patient.UserID {
				return repository.ErrDuplicate
			}
		}
		patient.ID = s.id()
		patient.CreatedAt = time.Now()
		s.patients[patient.ID] = *patient
		return nil
	})
}

func (r memPatients) GetByUserID(ctx context.Context, userID int64) (*model.Patient, error) {
	var found *model.Patient
	err := r.c.with("Patients.GetByUserID", func(s *memState) error {
		for _, p := range s.patients {
			if p.UserID == userID {
				p := p
				found = &p
			}
		}
		return nil
	})
	return found, err
}

type memSlots struct{ c *memConn }

func (r memSlots) CreateBatch(ctx context.Context, slots []*model.Slot) (int64, error) {
	var created int64
	err := r.c.with("Slots.CreateBatch", func(s *memState) error {
		type key struct {
			doctor int64
			at     int64
		}
		seen := make(map[key]bool, len(s.slots))
		for _, existing := range s.slots {
			seen[key{existing.DoctorID, existing.SlotDate.UnixNano()}] = true
		}
		for _, slot := range slots {
			k := key{slot.DoctorID, slot.SlotDate.UnixNano()}
			if seen[k] {
				return repository.ErrDuplicate
			}
			seen[k] = true
		}
		for _, slot := range slots {
			slot.ID = s.id()
			slot.CreatedAt = time.Now()
			s.slots[slot.ID] = *slot
			created++
		}
		return nil
	})
	if err != nil {
		return 0, err
	}
	return created, nil
}

func (r memSlots) GetByID(ctx context.Context, id int64) (*model.Slot, error) {
	var found *model.Slot
	err := r.c.with("Slots.GetByID", func(s *memState) error {
		if slot, ok := s.slots[id]; ok {
			found = &slot
		}
		return nil
	})
	return found, err
}

func (r memSlots) GetLatest(ctx context.Context) (*model.Slot, error) {
	var found *model.Slot
	err := r.c.with("Slots.GetLatest", func(s *memState) error {
		for _, slot := range s.slots {
			slot := slot
			if found == nil || slot.SlotDate.After(found.SlotDate) ||
				(slot.SlotDate.Equal(found.SlotDate) && slot.ID > found.ID) {
				found = &slot
			}
		}
		return nil
	})
	return found, err
}

func (r memSlots) GetOpenByDoctor(ctx context.Context, doctorID int64) ([]*model.Slot, error) {
	var out []*model.Slot
	err := r.c.with("Slots.GetOpenByDoctor", func(s *memState) error {
		for _, slot := range s.slots {
			if slot.DoctorID == doctorID && slot.Status == model.SlotStatusOpen {
				slot := slot
				out = append(out, &slot)
			}
		}
		sort.Slice(out, func(i, j int) bool { return out[i].SlotDate.Before(out[j].SlotDate) })
		return nil
	})
	return out, err
}

func (r memSlots) Acquire(ctx context.Context, slotID, doctorID int64) (bool, error) {
	var acquired bool
	err := r.c.with("Slots.Acquire", func(s *memState) error {
		slot, ok := s.slots[slotID]
		if !ok || slot.DoctorID != doctorID || slot.Status != model.SlotStatusOpen {
			return nil
		}
		slot.Status = model.SlotStatusBooked
		s.slots[slotID] = slot
		acquired = true
		return nil
	})
	return acquired, err
}

func (r memSlots) Release(ctx context.Context, slotID int64) (bool, error) {
	var released bool
	err := r.c.with("Slots.Release", func(s *memState) error {
		slot, ok := s.slots[slotID]
		if !ok || slot.Status == model.SlotStatusOpen {
			return nil
		}
		slot.Status = model.SlotStatusOpen
		s.slots[slotID] = slot
		released = true
		return nil
	})
	return released, err
}

type memAppointments struct{ c *memConn }

func (r memAppointments) Create(ctx context.Context, appointment *model.Appointment) error {
	return r.c.with("Appointments.Create", func(s *memState) error {
		for _, a := range s.appointments {
			if a.SlotID == appointment.SlotID {
				return repository.ErrDuplicate
			}
		}
		appointment.ID = s.id()
		appointment.CreatedAt = time.Now()
		appointment.UpdatedAt = appointment.CreatedAt
		s.appointments[appointment.ID] = *appointment
		return nil
	})
}

func (r memAppointments) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	var found *model.Appointment
	err := r.c.with("Appointments.GetByID", func(s *memState) error {
		if a, ok := s.appointments[id]; ok {
			found = &a
		}
		return nil
	})
	return found, err
}

func (r memAppointments) GetByIDForUpdate(ctx context.Context, id int64) (*model.Appointment, error) {
	var found *model.Appointment
	err := r.c.with("Appointments.GetByIDForUpdate", func(s *memState) error {
		if a, ok := s.appointments[id]; ok {
			found = &a
		}
		return nil
	})
	return found, err
}

func (r memAppointments) GetByPatientID(ctx context.Context, patientID int64) ([]*model.Appointment, error) {
	var out []*model.Appointment
	err := r.c.with("Appointments.GetByPatientID", func(s *memState) error {
		for _, a := range s.appointments {
			if a.PatientID != patientID {
				continue
			}
			a := a
			if slot, ok := s.slots[a.SlotID]; ok {
				a.Slot = &slot
			}
			out = append(out, &a)
		}
		sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
		return nil
	})
	return out, err
}

func (r memAppointments) UpdateSlot(ctx context.Context, id, slotID int64) error {
	return r.c.with("Appointments.UpdateSlot", func(s *memState) error {
		for _, a := range s.appointments {
			if a.SlotID == slotID && a.ID != id {
				return repository.ErrDuplicate
			}
		}
		a, ok := s.appointments[id]
		if !ok {
			return nil
		}
		a.SlotID = slotID
		a.UpdatedAt = time.Now()
		s.appointments[id] = a
		return nil
	})
}

func (r memAppointments) Delete(ctx context.Context, id int64) error {
	return r.c.with("Appointments.Delete", func(s *memState) error {
		delete(s.appointments, id)
		return nil
	})
}

// memCache SlotCache в памяти со счётчиками вызовов
type memCache struct {
	mu          sync.Mutex
	data        map[int64][]*model.Slot
	versions    map[int64]int64
	gets        int
	sets        int
	skipped     int
	invalidated []int64
	getErr      error

	// beforeSet вызывается перед записью, без блокировки
	beforeSet func()
}

func newMemCache() *memCache {
	return &memCache{data: map[int64][]*model.Slot{}, versions: map[int64]int64{}}
}

func (c *memCache) GetAvailable(ctx context.Context, doctorID int64) ([]*model.Slot, bool, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gets++
	if c.getErr != nil {
		return nil, false, c.getErr
	}
	slots, ok := c.data[doctorID]
	return slots, ok, nil
}

func (c *memCache) Version(ctx context.Context, doctorID int64) (int64, error) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.versions[doctorID], nil
}

func (c *memCache) SetAvailable(ctx context.Context, doctorID, version int64, slots []*model.Slot) (bool, error) {
	if c.beforeSet != nil {
		c.beforeSet()
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	if c.versions[doctorID] != version {
		c.skipped++
		return false, nil
	}
	c.sets++
	c.data[doctorID] = slots
	return true, nil
}

func (c *memCache) Invalidate(ctx context.Context, doctorIDs ...int64) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, id := range doctorIDs {
		delete(c.data, id)
		c.versions[id]++
		c.invalidated = append(c.invalidated, id)
	}
	return nil
}
