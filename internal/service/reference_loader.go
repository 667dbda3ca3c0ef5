package service

import (
	"context"

	"clinic-console/internal/domain/entity"

	"github.com/sirupsen/logrus"
	"github.com/sourcegraph/conc"
)

// ReferenceSource lists the reference collections forms select from.
type ReferenceSource interface {
	ListPatients(ctx context.Context) (entity.Patients, error)
	ListDoctors(ctx context.Context) (entity.Doctors, error)
}

type References struct {
	Patients entity.Patients
	Doctors  entity.Doctors
}

type ReferenceLoader interface {
	// Load fetches the requested collections concurrently. A failed fetch is
	// logged and leaves its collection empty.
	Load(ctx context.Context, patients, doctors bool) References
}

type referenceLoader struct {
	source ReferenceSource
	log    *logrus.Logger
}

func NewReferenceLoader(source ReferenceSource, log *logrus.Logger) ReferenceLoader {
	return &referenceLoader{
		source: source,
		log:    log,
	}
}

func (l *referenceLoader) Load(ctx context.Context, patients, doctors bool) References {
	var refs References
	var wg conc.WaitGroup

	if patients {
		wg.Go(func() {
			list, err := l.source.ListPatients(ctx)
			if err != nil {
				l.log.Warnf("Failed to load patients: %+v", err)
				return
			}
			refs.Patients = list
		})
	}
	if doctors {
		wg.Go(func() {
			list, err := l.source.ListDoctors(ctx)
			if err != nil {
				l.log.Warnf("Failed to load doctors: %+v", err)
				return
			}
			refs.Doctors = list
		})
	}
	wg.Wait()

	l.log.Debugf("Loaded references: patients=%d doctors=%d", len(refs.Patients), len(refs.Doctors))
	return refs
}
