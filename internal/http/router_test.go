package http

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/mrlokans/libraryhub/internal/services"
)

type testServer struct {
	router *gin.Engine
}

func newTestServer(t *testing.T) *testServer {
	t.Helper()
	db := setupTestDB(t)

	router := NewRouter(RouterConfig{
		Database:  db,
		Members:   services.NewMemberService(db, nil),
		Catalog:   services.NewCatalogService(db),
		Lending:   services.NewCheckoutService(db, nil, decimal.NewFromInt(1)),
		Billing:   services.NewBillingService(db, nil, false),
		Dashboard: services.NewDashboardService(db),
		Renewals:  services.NewRenewalService(db),
		Version:   "test",
	})
	return &testServer{router: router}
}

func (s *testServer) do(t *testing.T, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()
	var reader *bytes.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(payload)
	} else {
		reader = bytes.NewReader(nil)
	}

	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *testServer) createStudent(t *testing.T, code string) map[string]any {
	t.Helper()
	w := s.do(t, "POST", "/api/students", gin.H{
		"name":      "Student " + code,
		"email":     code + "@example.com",
		"phone":     "9876543210",
		"studentId": code,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}

func (s *testServer) createBook(t *testing.T, isbn string, total, available int) map[string]any {
	t.Helper()
	w := s.do(t, "POST", "/api/books", gin.H{
		"title":           "Book " + isbn,
		"author":          "Author",
		"isbn":            isbn,
		"category":        "Fiction",
		"totalCopies":     total,
		"availableCopies": available,
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	return decode[map[string]any](t, w)
}

func TestRouter_LendingFlow(t *testing.T) {
	s := newTestServer(t)
	student := s.createStudent(t, "S001")
	book := s.createBook(t, "978-1", 5, 1)

	due := time.Now().AddDate(0, 0, -3).Format("2006-01-02")
	w := s.do(t, "POST", "/api/checkouts", gin.H{"bookId": book["id"], "studentId": student["id"], "dueDate": due})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	checkout := decode[map[string]any](t, w)
	assert.Equal(t, "active", checkout["status"])

	w = s.do(t, "POST", "/api/checkouts", gin.H{"bookId": book["id"], "studentId": student["id"], "dueDate": due})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Book not available"}`, w.Body.String())

	w = s.do(t, "PATCH", "/api/checkouts/"+checkout["id"].(string)+"/return", nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "returned", decode[map[string]any](t, w)["status"])

	w = s.do(t, "PATCH", "/api/checkouts/"+checkout["id"].(string)+"/return", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.JSONEq(t, `{"message":"Book already returned"}`, w.Body.String())

	w = s.do(t, "GET", "/api/fees", nil)
	require.Equal(t, http.StatusOK, w.Code)
	fees := decode[[]map[string]any](t, w)
	require.Len(t, fees, 1)
	assert.Equal(t, "late-fee", fees[0]["type"])
	assert.Equal(t, "pending", fees[0]["status"])

	w = s.do(t, "GET", "/api/books/available", nil)
	require.Equal(t, http.StatusOK, w.Code)
	books := decode[[]map[string]any](t, w)
	require.Len(t, books, 1)
	assert.EqualValues(t, 1, books[0]["availableCopies"])
}

func TestRouter_NotFoundMessages(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "PATCH", "/api/checkouts/missing/return", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Checkout not found"}`, w.Body.String())

	w = s.do(t, "DELETE", "/api/students/missing", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, "PATCH", "/api/payments/missing/mark-pending", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = s.do(t, "POST", "/api/enroll-student", gin.H{"studentId": "x", "planId": "y", "paymentMethod": "cash"})
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Student or plan not found"}`, w.Body.String())

	w = s.do(t, "GET", "/api/nothing-here", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
	assert.JSONEq(t, `{"message":"Not found"}`, w.Body.String())
}

func TestRouter_Validation(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "POST", "/api/students", gin.H{"name": "No Email", "phone": "1", "studentId": "S9"})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Message, "email is required")

	s.createStudent(t, "S001")
	w = s.do(t, "POST", "/api/students", gin.H{
		"name": "Dup", "email": "S001@example.com", "phone": "1", "studentId": "S002",
	})
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, decode[ErrorResponse](t, w).Message, "already exists")

	req := httptest.NewRequest("POST", "/api/fees", bytes.NewBufferString("{"))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	s.router.ServeHTTP(rec, req)
	assert.Equal(t, http.StatusBadRequest, rec.Code)
}

func TestRouter_EnrollAndDashboard(t *testing.T) {
	s := newTestServer(t)
	student := s.createStudent(t, "S001")

	w := s.do(t, "POST", "/api/subscription-plans", gin.H{"name": "Monthly", "price": "500.00", "duration": 1})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	plan := decode[map[string]any](t, w)

	w = s.do(t, "POST", "/api/enroll-student", gin.H{
		"studentId":     student["id"],
		"planId":        plan["id"],
		"paymentMethod": "upi",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, true, decode[map[string]any](t, w)["success"])

	w = s.do(t, "GET", "/api/dashboard/stats", nil)
	require.Equal(t, http.StatusOK, w.Code)
	stats := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, stats["totalStudents"])
	assert.EqualValues(t, 1, stats["activeSubscriptions"])

	w = s.do(t, "GET", "/api/dashboard/students-with-fees", nil)
	require.Equal(t, http.StatusOK, w.Code)
	rows := decode[[]map[string]any](t, w)
	require.Len(t, rows, 1)
	assert.Equal(t, "Monthly", rows[0]["planName"])
	assert.Equal(t, "paid", rows[0]["paymentStatus"])

	w = s.do(t, "GET", "/api/renewal-reminders", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	for _, path := range []string{
		"/api/dashboard/revenue",
		"/api/dashboard/recent-students",
		"/api/dashboard/upcoming-fees",
		"/api/subscriptions",
		"/api/payments",
		"/api/students/list",
		"/api/checkouts",
		"/api/books",
		"/api/subscription-plans",
	} {
		w = s.do(t, "GET", path, nil)
		assert.Equal(t, http.StatusOK, w.Code, path)
	}
}

func TestRouter_PaymentSettlesFeeAndMarkPending(t *testing.T) {
	s := newTestServer(t)
	student := s.createStudent(t, "S001")

	w := s.do(t, "POST", "/api/fees", gin.H{
		"studentId":   student["id"],
		"amount":      "250",
		"type":        "membership",
		"description": "January",
		"dueDate":     time.Now().AddDate(0, 0, 5).Format("2006-01-02"),
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	fee := decode[map[string]any](t, w)

	w = s.do(t, "POST", "/api/payments", gin.H{
		"studentId":     student["id"],
		"feeId":         fee["id"],
		"amount":        "250",
		"paymentMethod": "cash",
		"status":        "completed",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	payment := decode[map[string]any](t, w)

	w = s.do(t, "GET", "/api/fees", nil)
	fees := decode[[]map[string]any](t, w)
	require.Len(t, fees, 1)
	assert.Equal(t, "paid", fees[0]["status"])

	w = s.do(t, "PATCH", "/api/payments/"+payment["id"].(string)+"/mark-pending", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Payment marked as pending"}`, w.Body.String())
}

func TestRouter_DeleteStudentAndBilling(t *testing.T) {
	s := newTestServer(t)
	student := s.createStudent(t, "S001")
	id := student["id"].(string)

	w := s.do(t, "PATCH", "/api/students/"+id+"/billing", gin.H{
		"stripeCustomerId":     "cus_1",
		"stripeSubscriptionId": "sub_1",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.Equal(t, "cus_1", decode[map[string]any](t, w)["stripeCustomerId"])

	w = s.do(t, "DELETE", "/api/students/"+id, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"message":"Student deleted successfully"}`, w.Body.String())

	w = s.do(t, "GET", "/api/students", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 0)
}

func TestRouter_OptionalRoutesAbsent(t *testing.T) {
	s := newTestServer(t)

	for _, path := range []string{"/api/audit", "/api/tasks/abc"} {
		w := s.do(t, "GET", path, nil)
		assert.Equal(t, http.StatusNotFound, w.Code, path)
	}
	w := s.do(t, "POST", "/api/reminders/run", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestRouter_SecurityHeaders(t *testing.T) {
	s := newTestServer(t)

	w := s.do(t, "GET", "/ping", nil)
	assert.Equal(t, "nosniff", w.Header().Get("X-Content-Type-Options"))
	assert.Equal(t, "DENY", w.Header().Get("X-Frame-Options"))
}

func TestRouter_CreateRoutesAnswerOK(t *testing.T) {
	s := newTestServer(t)
	student := s.createStudent(t, "S100")
	book := s.createBook(t, "978-100", 2, 2)
	due := time.Now().AddDate(0, 0, 14).Format("2006-01-02")

	requests := []struct {
		path string
		body gin.H
	}{
		{"/api/checkouts", gin.H{"bookId": book["id"], "studentId": student["id"], "dueDate": due}},
		{"/api/fees", gin.H{"studentId": student["id"], "amount": "40", "type": "membership", "description": "March", "dueDate": due}},
		{"/api/payments", gin.H{"studentId": student["id"], "amount": "40", "paymentMethod": "upi", "status": "completed"}},
	}

	for _, r := range requests {
		w := s.do(t, "POST", r.path, r.body)
		assert.Equal(t, http.StatusOK, w.Code, r.path+": "+w.Body.String())
		assert.NotEmpty(t, decode[map[string]any](t, w)["id"], r.path)
	}
}
