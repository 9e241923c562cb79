package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/mrlokans/libraryhub/internal/services"
)

// MembersController handles students, subscriptions and enrollment.
type MembersController struct {
	members Members
}

func NewMembersController(members Members) *MembersController {
	return &MembersController{members: members}
}

// ListStudents handles GET /api/students
func (mc *MembersController) ListStudents(c *gin.Context) {
	students, err := mc.members.ListStudents(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch students")
		return
	}
	c.JSON(http.StatusOK, students)
}

// ListStudentOptions handles GET /api/students/list
func (mc *MembersController) ListStudentOptions(c *gin.Context) {
	options, err := mc.members.ListStudentOptions(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch students list")
		return
	}
	c.JSON(http.StatusOK, options)
}

// CreateStudent handles POST /api/students
func (mc *MembersController) CreateStudent(c *gin.Context) {
	var input services.CreateStudentInput
	if !bindJSON(c, &input) {
		return
	}

	student, err := mc.members.CreateStudent(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create student")
		return
	}
	respondEntity(c, student)
}

// DeleteStudent handles DELETE /api/students/:id
// Removes the student together with their checkouts, fees, payments and subscriptions.
func (mc *MembersController) DeleteStudent(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	if err := mc.members.DeleteStudent(c.Request.Context(), id); err != nil {
		respondServiceError(c, err, "Failed to delete student")
		return
	}
	respondSuccess(c, "Student deleted successfully")
}

// UpdateBilling handles PATCH /api/students/:id/billing
func (mc *MembersController) UpdateBilling(c *gin.Context) {
	id, ok := pathID(c)
	if !ok {
		return
	}

	var input services.UpdateBillingInput
	if !bindJSON(c, &input) {
		return
	}

	student, err := mc.members.UpdateBillingRefs(c.Request.Context(), id, input)
	if err != nil {
		respondServiceError(c, err, "Failed to update billing details")
		return
	}
	c.JSON(http.StatusOK, student)
}

// ListSubscriptions handles GET /api/subscriptions
func (mc *MembersController) ListSubscriptions(c *gin.Context) {
	subs, err := mc.members.ListSubscriptions(c.Request.Context())
	if err != nil {
		respondInternalError(c, err, "Failed to fetch subscriptions")
		return
	}
	c.JSON(http.StatusOK, subs)
}

// CreateSubscription handles POST /api/subscriptions
func (mc *MembersController) CreateSubscription(c *gin.Context) {
	var input services.CreateSubscriptionInput
	if !bindJSON(c, &input) {
		return
	}

	sub, err := mc.members.CreateSubscription(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to create subscription")
		return
	}
	respondEntity(c, sub)
}

// Enroll handles POST /api/enroll-student
// Creates an active subscription and a completed payment for the plan price.
func (mc *MembersController) Enroll(c *gin.Context) {
	var input services.EnrollInput
	if !bindJSON(c, &input) {
		return
	}

	enrollment, err := mc.members.Enroll(c.Request.Context(), input)
	if err != nil {
		respondServiceError(c, err, "Failed to enroll student")
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"success":      true,
		"subscription": enrollment.Subscription,
		"payment":      enrollment.Payment,
	})
}
