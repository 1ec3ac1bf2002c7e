package store

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/suite"

	"ongfinder/internal/volunteer/models"
	"ongfinder/pkg/domain"
	"ongfinder/pkg/platform/sentinel"
)

type VolunteerStoreSuite struct {
	suite.Suite
	store *InMemoryStore
}

func (s *VolunteerStoreSuite) SetupTest() {
	s.store = NewInMemory()
}

func TestVolunteerStoreSuite(t *testing.T) {
	suite.Run(t, new(VolunteerStoreSuite))
}

func (s *VolunteerStoreSuite) seed(name, email, cpf, phone string) *models.Volunteer {
	vol := &models.Volunteer{
		FullName:     name,
		CPF:          cpf,
		BirthDate:    domain.NewDate(1995, time.March, 10),
		Gender:       domain.GenderFemale,
		Phone:        phone,
		Email:        email,
		PasswordHash: "$2a$10$hash",
		Active:       true,
	}
	s.Require().NoError(s.store.Create(context.Background(), vol))
	return vol
}

func (s *VolunteerStoreSuite) TestCreateAndFind() {
	s.Run("finds by id and email case-insensitively", func() {
		vol := s.seed("Ana Silva", "ana@example.com", "11122233344", "(11)98888-7777")

		byID, err := s.store.FindByID(context.Background(), vol.ID)
		s.Require().NoError(err)
		s.Equal("Ana Silva", byID.FullName)

		byEmail, err := s.store.FindByEmail(context.Background(), "ANA@example.com")
		s.Require().NoError(err)
		s.Equal(vol.ID, byEmail.ID)
	})

	s.Run("rejects duplicate email, cpf and phone", func() {
		s.seed("Ana Silva", "ana@example.com", "11122233344", "(11)98888-7777")

		dup := &models.Volunteer{FullName: "Outra", Email: "ana@example.com", CPF: "55566677788"}
		s.Require().ErrorIs(s.store.Create(context.Background(), dup), sentinel.ErrAlreadyUsed)

		dup = &models.Volunteer{FullName: "Outra", Email: "outra@example.com", CPF: "11122233344"}
		s.Require().ErrorIs(s.store.Create(context.Background(), dup), sentinel.ErrAlreadyUsed)

		dup = &models.Volunteer{FullName: "Outra", Email: "outra@example.com", CPF: "55566677788", Phone: "(11)98888-7777"}
		s.Require().ErrorIs(s.store.Create(context.Background(), dup), sentinel.ErrAlreadyUsed)
	})

	s.Run("empty phones never collide", func() {
		s.seed("Sem Fone 1", "sf1@example.com", "00011122233", "")
		vol := &models.Volunteer{FullName: "Sem Fone 2", Email: "sf2@example.com", CPF: "00011122244"}
		s.Require().NoError(s.store.Create(context.Background(), vol))
	})
}

func (s *VolunteerStoreSuite) TestUniquenessProbes() {
	ctx := context.Background()
	ana := s.seed("Ana", "ana@example.com", "11122233344", "(11)98888-7777")
	bia := s.seed("Bia", "bia@example.com", "55566677788", "(21)97777-6666")

	s.Run("taken by another account", func() {
		taken, err := s.store.EmailTaken(ctx, "bia@example.com", ana.ID)
		s.Require().NoError(err)
		s.True(taken)

		taken, err = s.store.PhoneTaken(ctx, "(21)97777-6666", ana.ID)
		s.Require().NoError(err)
		s.True(taken)
	})

	s.Run("own values are not conflicts", func() {
		taken, err := s.store.EmailTaken(ctx, "bia@example.com", bia.ID)
		s.Require().NoError(err)
		s.False(taken)

		taken, err = s.store.PhoneTaken(ctx, "(21)97777-6666", bia.ID)
		s.Require().NoError(err)
		s.False(taken)
	})
}

func (s *VolunteerStoreSuite) TestUpdate() {
	ctx := context.Background()

	s.Run("persists changed fields", func() {
		vol := s.seed("Ana", "upd@example.com", "99988877766", "")
		vol.Phone = "(31)96666-5555"
		vol.FullName = "Ana Souza"
		s.Require().NoError(s.store.Update(ctx, vol))

		stored, err := s.store.FindByID(ctx, vol.ID)
		s.Require().NoError(err)
		s.Equal("Ana Souza", stored.FullName)
		s.Equal("(31)96666-5555", stored.Phone)
	})

	s.Run("unknown id yields ErrNotFound", func() {
		err := s.store.Update(ctx, &models.Volunteer{ID: 999, FullName: "Fantasma"})
		s.Require().ErrorIs(err, sentinel.ErrNotFound)
	})

	s.Run("colliding with another account yields ErrAlreadyUsed", func() {
		s.seed("A", "a@upd.com", "10000000001", "")
		b := s.seed("B", "b@upd.com", "10000000002", "")
		b.Email = "a@upd.com"
		s.Require().ErrorIs(s.store.Update(ctx, b), sentinel.ErrAlreadyUsed)
	})
}
