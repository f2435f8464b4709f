package controllers

import (
	"context"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.mongodb.org/mongo-driver/bson/primitive"

	"github.com/balcao/backend/models"
	"github.com/balcao/backend/utils"
)

// store is the CRUD surface shared by the catalog and people collections.
type store[T any] interface {
	List(ctx context.Context) ([]T, error)
	FindByID(ctx context.Context, id primitive.ObjectID) (*T, error)
	Insert(ctx context.Context, v *T) (primitive.ObjectID, error)
	Update(ctx context.Context, v *T) (bool, error)
	Delete(ctx context.Context, id primitive.ObjectID) (bool, error)
}

// Resource serves list, get, create, update and delete for one collection.
type Resource[T any] struct {
	h     *Handler
	name  string
	store store[T]
	setID func(*T, primitive.ObjectID)
}

func newResource[T any](h *Handler, name string, s store[T], setID func(*T, primitive.ObjectID)) *Resource[T] {
	return &Resource[T]{h: h, name: name, store: s, setID: setID}
}

func (r *Resource[T]) List(c *gin.Context) {
	ctx, cancel := r.h.ctx(c)
	defer cancel()

	items, err := r.store.List(ctx)
	if err != nil {
		r.h.respondError(c, err)
		return
	}
	if items == nil {
		items = []T{}
	}
	c.JSON(http.StatusOK, items)
}

func (r *Resource[T]) Get(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := r.h.ctx(c)
	defer cancel()

	item, err := r.store.FindByID(ctx, id)
	if err != nil {
		r.h.respondError(c, err)
		return
	}
	if item == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": r.name + " not found"})
		return
	}
	c.JSON(http.StatusOK, item)
}

func (r *Resource[T]) Create(c *gin.Context) {
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.setID(&item, primitive.NilObjectID)

	ctx, cancel := r.h.ctx(c)
	defer cancel()

	id, err := r.store.Insert(ctx, &item)
	if err != nil {
		r.h.respondError(c, err)
		return
	}
	r.setID(&item, id)
	c.JSON(http.StatusCreated, item)
}

func (r *Resource[T]) Update(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var item T
	if err := c.ShouldBindJSON(&item); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	r.setID(&item, id)

	ctx, cancel := r.h.ctx(c)
	defer cancel()

	updated, err := r.store.Update(ctx, &item)
	if err != nil {
		r.h.respondError(c, err)
		return
	}
	if !updated {
		c.JSON(http.StatusNotFound, gin.H{"error": r.name + " not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": r.name + " updated successfully"})
}

func (r *Resource[T]) Delete(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	ctx, cancel := r.h.ctx(c)
	defer cancel()

	deleted, err := r.store.Delete(ctx, id)
	if err != nil {
		r.h.respondError(c, err)
		return
	}
	if !deleted {
		c.JSON(http.StatusNotFound, gin.H{"error": r.name + " not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": r.name + " deleted successfully"})
}

// Route mounts the five handlers under path.
func (r *Resource[T]) Route(g *gin.RouterGroup, path string) {
	g.GET(path, r.List)
	g.GET(path+"/:id", r.Get)
	g.POST(path, r.Create)
	g.PUT(path+"/:id", r.Update)
	g.DELETE(path+"/:id", r.Delete)
}

func (h *Handler) Products() *Resource[models.Product] {
	return newResource[models.Product](h, "Product", h.repos.Products, func(p *models.Product, id primitive.ObjectID) { p.ID = id })
}

func (h *Handler) Customers() *Resource[models.Customer] {
	return newResource[models.Customer](h, "Customer", h.repos.Customers, func(v *models.Customer, id primitive.ObjectID) { v.ID = id })
}

func (h *Handler) Suppliers() *Resource[models.Supplier] {
	return newResource[models.Supplier](h, "Supplier", h.repos.Suppliers, func(v *models.Supplier, id primitive.ObjectID) { v.ID = id })
}

func (h *Handler) Venues() *Resource[models.Venue] {
	return newResource[models.Venue](h, "Venue", h.repos.Venues, func(v *models.Venue, id primitive.ObjectID) { v.ID = id })
}

func (h *Handler) Employees() *Resource[models.Employee] {
	return newResource[models.Employee](h, "Employee", h.repos.Employees, func(v *models.Employee, id primitive.ObjectID) { v.ID = id })
}

type restockRequest struct {
	Quantity int `json:"quantity" binding:"required"`
}

// RestockProduct receives goods into stock.
func (h *Handler) RestockProduct(c *gin.Context) {
	var req restockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	ctx, cancel := h.ctx(c)
	defer cancel()

	p, err := h.checkout.Restock(ctx, c.Param("id"), req.Quantity)
	if err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handler) VoidSale(c *gin.Context) {
	ctx, cancel := h.ctx(c)
	defer cancel()

	voided, err := h.checkout.VoidSale(ctx, c.Param("saleID"))
	if err != nil {
		h.respondError(c, err)
		return
	}
	if !voided {
		c.JSON(http.StatusNotFound, gin.H{"voided": false, "error": "Sale not found"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"voided": true})
}

type userRequest struct {
	Username   string `json:"username" binding:"required"`
	Password   string `json:"password"`
	Role       string `json:"role" binding:"required,oneof=admin cashier"`
	EmployeeID string `json:"employee_id"`
}

func (h *Handler) users() *Resource[models.User] {
	return newResource[models.User](h, "User", h.repos.Users, func(u *models.User, id primitive.ObjectID) { u.ID = id })
}

func (h *Handler) ListUsers(c *gin.Context) { h.users().List(c) }
func (h *Handler) GetUser(c *gin.Context) { h.users().Get(c) }
func (h *Handler) DeleteUser(c *gin.Context) { h.users().Delete(c) }

// CreateUser stores a login with its password hashed.
func (h *Handler) CreateUser(c *gin.Context) {
	var input userRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if input.Password == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Password is required"})
		return
	}
	hashed, err := utils.HashPassword(input.Password)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	user := models.User{Username: input.Username, Password: hashed, Role: input.Role, EmployeeID: input.EmployeeID}
	if _, err := h.repos.Users.Insert(ctx, &user); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, user)
}

// UpdateUser keeps the stored hash when no new password is sent.
func (h *Handler) UpdateUser(c *gin.Context) {
	id, ok := objectID(c, "id")
	if !ok {
		return
	}
	var input userRequest
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	ctx, cancel := h.ctx(c)
	defer cancel()

	current, err := h.repos.Users.FindByID(ctx, id)
	if err != nil {
		h.respondError(c, err)
		return
	}
	if current == nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "User not found"})
		return
	}

	next := models.User{ID: id, Username: input.Username, Password: current.Password, Role: input.Role, EmployeeID: input.EmployeeID}
	if input.Password != "" {
		if next.Password, err = utils.HashPassword(input.Password); err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Error hashing password"})
			return
		}
	}
	if _, err := h.repos.Users.Update(ctx, &next); err != nil {
		h.respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "User updated successfully"})
}
