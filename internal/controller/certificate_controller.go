package controller

import (
	"qryti_learn_backend/internal/service"
	"qryti_learn_backend/internal/util"

	"github.com/gin-gonic/gin"
)

type CertificateController struct {
	Service *service.CertificateService
}

func NewCertificateController(s *service.CertificateService) *CertificateController {
	return &CertificateController{Service: s}
}

// Generate godoc
// @Summary Issue the certificate for a completed course
// @Tags certificates
// @Security BearerAuth
// @Produce json
// @Param courseId path int true "course id"
// @Success 201 {object} util.Response
// @Router /api/v1/certificates/courses/{courseId} [post]
func (ctl *CertificateController) Generate(c *gin.Context) {
	courseID, ok := paramUint(c, "courseId")
	if !ok {
		return
	}
	claims := util.GetUserFromContext(c)
	cert, err := ctl.Service.GenerateForCourse(claims.UserID, courseID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Created(c, cert)
}

func (ctl *CertificateController) MyCertificates(c *gin.Context) {
	claims := util.GetUserFromContext(c)
	certs, err := ctl.Service.ListForUser(claims.UserID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, certs)
}

// Verify godoc
// @Summary Verify a certificate by its public identifier
// @Tags certificates
// @Produce json
// @Param certificateId path string true "certificate id"
// @Success 200 {object} util.Response
// @Router /api/v1/certificates/verify/{certificateId} [get]
func (ctl *CertificateController) Verify(c *gin.Context) {
	certificateID := c.Param("certificateId")
	if certificateID == "" {
		util.BadRequest(c, "missing certificate id")
		return
	}
	result, err := ctl.Service.Verify(certificateID)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, result)
}

// VerifyByCode godoc
// @Summary Verify a certificate by its short verification code
// @Tags certificates
// @Produce json
// @Param code path string true "verification code"
// @Success 200 {object} util.Response
// @Router /api/v1/certificates/verify-code/{code} [get]
func (ctl *CertificateController) VerifyByCode(c *gin.Context) {
	code := c.Param("code")
	if code == "" {
		util.BadRequest(c, "missing verification code")
		return
	}
	result, err := ctl.Service.VerifyByCode(code)
	if err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, result)
}

// Revoke godoc
// @Summary Revoke a certificate (admin)
// @Tags certificates
// @Security BearerAuth
// @Produce json
// @Param certificateId path string true "certificate id"
// @Success 200 {object} util.Response
// @Router /api/v1/admin/certificates/{certificateId} [delete]
func (ctl *CertificateController) Revoke(c *gin.Context) {
	certificateID := c.Param("certificateId")
	if certificateID == "" {
		util.BadRequest(c, "missing certificate id")
		return
	}
	if err := ctl.Service.Revoke(certificateID); err != nil {
		handleServiceError(c, err)
		return
	}
	util.Success(c, gin.H{"revoked": true})
}
