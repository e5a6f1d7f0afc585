package service

import (
	"errors"
	"regexp"
	"sync"
	"testing"
	"time"

	"qryti_learn_backend/internal/model"
	"qryti_learn_backend/internal/util"
)

var certificateIDPattern = regexp.MustCompile(`^QRYTI-\d{4}-[0-9A-F]{16}$`)

func TestIssueFormatsAndURL(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "cert@example.com")
	course, _ := seedCourse(t, db, 1)
	svc, sink := newCertificateService(t, db)

	cert, err := svc.Issue(user.ID, course.ID, 87.5)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	if !certificateIDPattern.MatchString(cert.CertificateID) {
		t.Errorf("certificate id %q does not match QRYTI-<year>-<16 hex>", cert.CertificateID)
	}
	if len(cert.VerificationCode) != 8 {
		t.Errorf("verification code %q, want 8 hex chars", cert.VerificationCode)
	}
	if cert.VerificationURL != "https://learn.qryti.com/verify/"+cert.CertificateID {
		t.Errorf("verification url = %q", cert.VerificationURL)
	}
	if !cert.IsValid || cert.FinalScore != 87.5 {
		t.Errorf("cert = valid:%v score:%v, want valid with score 87.5", cert.IsValid, cert.FinalScore)
	}
	if sink.count(model.EventCertificateIssued) != 1 {
		t.Errorf("issued events = %d, want 1", sink.count(model.EventCertificateIssued))
	}
}

func TestIssueIdempotentSequential(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "idem@example.com")
	course, _ := seedCourse(t, db, 1)
	svc, sink := newCertificateService(t, db)

	first, err := svc.Issue(user.ID, course.ID, 90)
	if err != nil {
		t.Fatalf("first issue: %v", err)
	}
	second, err := svc.Issue(user.ID, course.ID, 55)
	if err != nil {
		t.Fatalf("second issue: %v", err)
	}
	if first.CertificateID != second.CertificateID {
		t.Errorf("ids differ: %q vs %q", first.CertificateID, second.CertificateID)
	}
	if second.FinalScore != 90 {
		t.Errorf("existing certificate mutated: score = %v, want 90", second.FinalScore)
	}
	if sink.count(model.EventCertificateIssued) != 1 {
		t.Errorf("issued events = %d, want 1 for repeat issuance", sink.count(model.EventCertificateIssued))
	}
}

func TestIssueIdempotentConcurrent(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "race-cert@example.com")
	course, _ := seedCourse(t, db, 1)
	svc, _ := newCertificateService(t, db)

	const workers = 8
	ids := make([]string, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func(n int) {
			defer wg.Done()
			cert, err := svc.Issue(user.ID, course.ID, 80)
			if err != nil {
				t.Errorf("worker %d: %v", n, err)
				return
			}
			ids[n] = cert.CertificateID
		}(i)
	}
	wg.Wait()

	for _, id := range ids[1:] {
		if id != ids[0] {
			t.Fatalf("concurrent issuance produced different ids: %v", ids)
		}
	}

	var count int64
	if err := db.Model(&model.Certificate{}).
		Where("user_id = ? AND course_id = ?", user.ID, course.ID).
		Count(&count).Error; err != nil {
		t.Fatalf("count: %v", err)
	}
	if count != 1 {
		t.Errorf("certificate rows = %d, want 1", count)
	}
}

func TestVerifyLifecycle(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "verify@example.com")
	course, _ := seedCourse(t, db, 1)
	svc, _ := newCertificateService(t, db)

	cert, err := svc.Issue(user.ID, course.ID, 95)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}

	byID, err := svc.Verify(cert.CertificateID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if !byID.Valid || byID.Certificate == nil {
		t.Fatal("freshly issued certificate must verify")
	}

	byCode, err := svc.VerifyByCode(cert.VerificationCode)
	if err != nil {
		t.Fatalf("verify by code: %v", err)
	}
	if !byCode.Valid {
		t.Fatal("verification code lookup must succeed")
	}

	if err := svc.Revoke(cert.CertificateID); err != nil {
		t.Fatalf("revoke: %v", err)
	}
	afterRevoke, err := svc.Verify(cert.CertificateID)
	if err != nil {
		t.Fatalf("verify after revoke: %v", err)
	}
	if afterRevoke.Valid {
		t.Error("revoked certificate must fail verification")
	}
}

func TestVerifyUnknownFailsClosed(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCertificateService(t, db)

	result, err := svc.Verify("QRYTI-2026-DOESNOTEXIST0000")
	if err != nil {
		t.Fatalf("verify unknown: %v", err)
	}
	if result.Valid || result.Certificate != nil {
		t.Error("unknown certificate must yield a negative result, not an error")
	}
}

func TestVerifyExpiredFailsClosed(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "expired@example.com")
	course, _ := seedCourse(t, db, 1)
	svc, _ := newCertificateService(t, db)

	cert, err := svc.Issue(user.ID, course.ID, 80)
	if err != nil {
		t.Fatalf("issue: %v", err)
	}
	past := time.Now().Add(-time.Hour)
	if err := db.Model(&model.Certificate{}).Where("id = ?", cert.ID).
		Update("expires_at", past).Error; err != nil {
		t.Fatalf("backdate: %v", err)
	}

	result, err := svc.Verify(cert.CertificateID)
	if err != nil {
		t.Fatalf("verify: %v", err)
	}
	if result.Valid {
		t.Error("expired certificate must fail verification")
	}
}

func TestRevokeUnknown(t *testing.T) {
	db := newTestDB(t)
	svc, _ := newCertificateService(t, db)

	if err := svc.Revoke("QRYTI-2026-0000000000000000"); !errors.Is(err, util.ErrCertificateNotFound) {
		t.Fatalf("got %v, want ErrCertificateNotFound", err)
	}
}

func TestGenerateForCourseRequiresCompletion(t *testing.T) {
	db := newTestDB(t)
	user := seedUser(t, db, "gen@example.com")
	course, _ := seedCourse(t, db, 1)
	svc, _ := newCertificateService(t, db)

	if _, err := svc.GenerateForCourse(user.ID, course.ID); !errors.Is(err, util.ErrCourseNotCompleted) {
		t.Fatalf("no enrollment: got %v, want ErrCourseNotCompleted", err)
	}

	enrollment := seedEnrollment(t, db, user.ID, course.ID)
	if _, err := svc.GenerateForCourse(user.ID, course.ID); !errors.Is(err, util.ErrCourseNotCompleted) {
		t.Fatalf("incomplete enrollment: got %v, want ErrCourseNotCompleted", err)
	}

	score := 88.0
	now := time.Now()
	enrollment.Status = model.EnrollmentCompleted
	enrollment.CompletedAt = &now
	enrollment.FinalScore = &score
	if err := db.Save(enrollment).Error; err != nil {
		t.Fatalf("complete enrollment: %v", err)
	}

	cert, err := svc.GenerateForCourse(user.ID, course.ID)
	if err != nil {
		t.Fatalf("generate: %v", err)
	}
	if cert.FinalScore != 88 {
		t.Errorf("final score = %v, want 88 from the enrollment", cert.FinalScore)
	}
}
