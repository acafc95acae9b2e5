package handlers

import (
	"mime"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/struffoli/facecard/models"
	"github.com/struffoli/facecard/pkg"
	"github.com/struffoli/facecard/services"
)

type ProductHandler struct {
	productService services.ProductService
	uploadService  services.UploadService
	maxUpload      int64
}

func NewProductHandler(productService services.ProductService, uploadService services.UploadService, maxUpload int64) *ProductHandler {
	return &ProductHandler{
		productService: productService,
		uploadService:  uploadService,
		maxUpload:      maxUpload,
	}
}

// Create godoc
// POST /api/products
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	var req models.CreateProductRequest
	if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.productService.CreateProduct(r.Context(), user.ID, &req)
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusCreated, product)
}

// Get godoc
// GET /api/products/{id}
func (h *ProductHandler) Get(w http.ResponseWriter, r *http.Request) {
	product, err := h.productService.GetProduct(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, product)
}

// Liked godoc
// GET /api/products/{id}/likes
func (h *ProductHandler) Liked(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetUserLikedProducts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, products)
}

// HolyGrails godoc
// GET /api/products/{id}/holyGrails
func (h *ProductHandler) HolyGrails(w http.ResponseWriter, r *http.Request) {
	products, err := h.productService.GetUserHolyGrailedProducts(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, products)
}

// Update godoc
// PATCH /api/products/{id}
//
// Accepts JSON, or a multipart form with the same fields plus an optional
// "picture" file. In a form, ingredients is a ", "-separated string.
// Ownership is checked before the picture touches the disk, and a stored
// picture is removed again if the update itself fails.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}
	id := chi.URLParam(r, "id")

	var req models.UpdateProductRequest
	uploaded := isMultipart(r)
	if uploaded {
		if err := h.productService.AuthorizeUpdate(r.Context(), user.ID, id); err != nil {
			pkg.Error(w, err)
			return
		}
		if err := parseMultipart(w, r, h.maxUpload); err != nil {
			pkg.Error(w, err)
			return
		}
		req = models.UpdateProductRequest{
			ProductType: r.FormValue("product_type"),
			ProductName: r.FormValue("product_name"),
			Ingredients: models.ParseIngredients(r.FormValue("ingredients")),
			Description: r.FormValue("description"),
		}

		name, err := saveFormPicture(r, h.uploadService)
		if err != nil {
			pkg.Error(w, err)
			return
		}
		req.PicturePath = name
	} else if !decodeBody(w, r, &req) {
		return
	}

	product, err := h.productService.UpdateProduct(r.Context(), user.ID, id, &req)
	if err != nil {
		discardPicture(h.uploadService, req.PicturePath, uploaded)
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, product)
}

// Like godoc
// PATCH /api/products/{id}/like
func (h *ProductHandler) Like(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	product, err := h.productService.LikeProduct(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, product)
}

// HolyGrail godoc
// PATCH /api/products/{id}/holyGrail
func (h *ProductHandler) HolyGrail(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	product, err := h.productService.HolyGrailProduct(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, product)
}

// Delete godoc
// DELETE /api/products/{id}
func (h *ProductHandler) Delete(w http.ResponseWriter, r *http.Request) {
	user, ok := requester(w, r)
	if !ok {
		return
	}

	product, err := h.productService.DeleteProduct(r.Context(), user.ID, chi.URLParam(r, "id"))
	if err != nil {
		pkg.Error(w, err)
		return
	}
	pkg.JSON(w, http.StatusOK, product)
}

func isMultipart(r *http.Request) bool {
	mediaType, _, err := mime.ParseMediaType(r.Header.Get("Content-Type"))
	return err == nil && mediaType == "multipart/form-data"
}
