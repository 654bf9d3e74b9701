package usecase

import (
	"context"

	"go.opentelemetry.io/otel/trace"

	"github.com/desatrip/desatrip/internal/notification/entity"
	"github.com/desatrip/desatrip/internal/pkg/instrument"
	"github.com/desatrip/desatrip/internal/pkg/uid"
)

type repoDB interface {
	RecordNotification(ctx context.Context, in entity.NewNotification) error
}

type repoEmail interface {
	Send(ctx context.Context, to, subject, textBody string) error
}

type Usecase struct {
	repoDB    repoDB
	repoEmail repoEmail
	uid       uid.NumberID
	ins       instrument.Instrumentation
}

type Dependency struct {
	RepoDB     repoDB
	RepoEmail  repoEmail
	UID        uid.NumberID
	Instrument instrument.Instrumentation
}

func New(dep Dependency) *Usecase {
	return &Usecase{
		repoDB:    dep.RepoDB,
		repoEmail: dep.RepoEmail,
		uid:       dep.UID,
		ins:       dep.Instrument,
	}
}

func (s *Usecase) startSpan(ctx context.Context, name string) (context.Context, trace.Span) {
	return s.ins.Tracer("notification.usecase").Start(ctx, name)
}
