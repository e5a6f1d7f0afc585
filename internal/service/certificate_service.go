package service

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/repository"
	"qryti_learn_backend/internal/util"
	"qryti_learn_backend/pkg/monitoring"

	"go.uber.org/zap"
	"gorm.io/gorm"
)

type CertificateService struct {
	certRepo   *repository.CertificateRepository
	courseRepo *repository.CourseRepository
	events     EventSink
	logger     *zap.Logger
	baseURL    string
}

func NewCertificateService(
	certRepo *repository.CertificateRepository,
	courseRepo *repository.CourseRepository,
	events EventSink,
	logger *zap.Logger,
	baseURL string,
) *CertificateService {
	return &CertificateService{
		certRepo:   certRepo,
		courseRepo: courseRepo,
		events:     events,
		logger:     logger,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

func randomHex(bytes int) string {
	buf := make([]byte, bytes)
	// crypto/rand.Read only fails when the platform's entropy source is
	// broken, which is not a recoverable state for certificate issuance.
	if _, err := rand.Read(buf); err != nil {
		panic(err)
	}
	return strings.ToUpper(hex.EncodeToString(buf))
}

func newCertificateID(issuedAt time.Time) string {
	return fmt.Sprintf("QRYTI-%d-%s", issuedAt.Year(), randomHex(8))
}

// Issue creates the certificate for (user, course), or returns the existing
// one unchanged. The unique index on the pair is the real guard: when a
// concurrent insert loses the race, the winner's row is fetched and returned,
// so every caller observes the same certificate id.
func (s *CertificateService) Issue(userID, courseID uint, finalScore float64) (*model.Certificate, error) {
	if existing, err := s.certRepo.FindByUserAndCourse(userID, courseID); err == nil {
		return existing, nil
	} else if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, err
	}

	issuedAt := time.Now()
	cert := &model.Certificate{
		UserID:           userID,
		CourseID:         courseID,
		CertificateID:    newCertificateID(issuedAt),
		VerificationCode: randomHex(4),
		FinalScore:       finalScore,
		IssuedAt:         issuedAt,
		IsValid:          true,
	}
	cert.VerificationURL = fmt.Sprintf("%s/verify/%s", s.baseURL, cert.CertificateID)

	if err := s.certRepo.Create(cert); err != nil {
		// Lost an insert race or hit a duplicate key: the pair's certificate
		// already exists, return it.
		if existing, ferr := s.certRepo.FindByUserAndCourse(userID, courseID); ferr == nil {
			return existing, nil
		}
		return nil, err
	}

	monitoring.CertificatesIssued.Inc()
	s.events.Record(userID, model.EventCertificateIssued, map[string]interface{}{
		"course_id":      courseID,
		"certificate_id": cert.CertificateID,
		"final_score":    finalScore,
	})
	s.logger.Info("certificate issued",
		zap.Uint("userId", userID),
		zap.Uint("courseId", courseID),
		zap.String("certificateId", cert.CertificateID))
	return cert, nil
}

// GenerateForCourse issues a certificate on demand. The enrollment must
// already be completed; the recorded final score is used.
func (s *CertificateService) GenerateForCourse(userID, courseID uint) (*model.Certificate, error) {
	enrollment, err := s.courseRepo.FindEnrollment(userID, courseID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, util.ErrCourseNotCompleted
		}
		return nil, err
	}
	if enrollment.Status != model.EnrollmentCompleted {
		return nil, util.ErrCourseNotCompleted
	}
	finalScore := 0.0
	if enrollment.FinalScore != nil {
		finalScore = *enrollment.FinalScore
	}
	return s.Issue(userID, courseID, finalScore)
}

// VerificationResult is the public answer to "is this certificate genuine".
// A missing, revoked or expired certificate yields Valid=false with no
// detail about which case applied.
type VerificationResult struct {
	Valid       bool               `json:"valid"`
	Certificate *model.Certificate `json:"certificate,omitempty"`
}

func (s *CertificateService) verifyLoaded(cert *model.Certificate, err error) (*VerificationResult, error) {
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return &VerificationResult{Valid: false}, nil
		}
		return nil, err
	}
	if !cert.IsValid || cert.Expired() {
		return &VerificationResult{Valid: false}, nil
	}
	return &VerificationResult{Valid: true, Certificate: cert}, nil
}

func (s *CertificateService) Verify(certificateID string) (*VerificationResult, error) {
	cert, err := s.certRepo.FindByCertificateID(strings.ToUpper(strings.TrimSpace(certificateID)))
	return s.verifyLoaded(cert, err)
}

func (s *CertificateService) VerifyByCode(code string) (*VerificationResult, error) {
	cert, err := s.certRepo.FindByVerificationCode(strings.ToUpper(strings.TrimSpace(code)))
	return s.verifyLoaded(cert, err)
}

// Revoke permanently invalidates a certificate. Verification of a revoked
// certificate fails from this point on.
func (s *CertificateService) Revoke(certificateID string) error {
	cert, err := s.certRepo.FindByCertificateID(certificateID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCertificateNotFound
		}
		return err
	}
	if err := s.certRepo.Invalidate(certificateID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return util.ErrCertificateNotFound
		}
		return err
	}
	s.events.Record(cert.UserID, model.EventCertificateRevoked, map[string]interface{}{
		"certificate_id": certificateID,
	})
	s.logger.Warn("certificate revoked", zap.String("certificateId", certificateID))
	return nil
}

func (s *CertificateService) ListForUser(userID uint) ([]model.Certificate, error) {
	return s.certRepo.ListValidByUser(userID)
}
