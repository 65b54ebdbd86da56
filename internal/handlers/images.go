package handlers

import (
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"shared-gallery-gateway/internal/api"
	"shared-gallery-gateway/internal/middleware"
	"shared-gallery-gateway/internal/models"
	"shared-gallery-gateway/internal/services"
	"shared-gallery-gateway/internal/web"
)

// ImageHandler serves the gallery pages and image mutations
type ImageHandler struct {
	renderer *web.Renderer
	gallery  *services.GalleryService
	sharing  *services.SharingService
	auth     *services.AuthService
}

// NewImageHandler creates a new image handler
func NewImageHandler(renderer *web.Renderer, gallery *services.GalleryService, sharing *services.SharingService, auth *services.AuthService) *ImageHandler {
	return &ImageHandler{
		renderer: renderer,
		gallery:  gallery,
		sharing:  sharing,
		auth:     auth,
	}
}

// imageView pairs an image with the capability set derived for the
// current session. The capabilities only pick which buttons render;
// the gallery API re-checks every action they trigger.
type imageView struct {
	Image models.Image
	Caps  models.Caps
}

type imageListPage struct {
	Heading string
	Empty   string
	Items   []imageView
}

type imageDetailPage struct {
	Image models.Image
	Caps  models.Caps
}

// MyImages handles GET /images/my-images
func (h *ImageHandler) MyImages(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	page := imageListPage{Heading: "My Images", Empty: "No images yet."}
	data := newPageData(r, sess, &page)

	images, err := h.gallery.MyImages(r.Context(), sess)
	if err != nil {
		h.listError(w, r, sess, err, &data)
		return
	}

	for _, img := range images {
		page.Items = append(page.Items, imageView{Image: img, Caps: models.Capabilities(sess, img)})
	}
	render(w, h.renderer, "images.html", data)
}

// PublicImages handles GET /images/public
func (h *ImageHandler) PublicImages(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	page := imageListPage{Heading: "Public Images", Empty: "No public images."}
	data := newPageData(r, sess, &page)

	images, err := h.gallery.PublicImages(r.Context(), sess)
	if err != nil {
		h.listError(w, r, sess, err, &data)
		return
	}

	for _, img := range images {
		page.Items = append(page.Items, imageView{Image: img, Caps: models.Capabilities(sess, img)})
	}
	render(w, h.renderer, "images.html", data)
}

// Detail handles GET /images/{imageID}
func (h *ImageHandler) Detail(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	imageID, err := parseID(chi.URLParam(r, "imageID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	image, err := h.gallery.GetImage(r.Context(), sess, imageID)
	if err != nil {
		if api.IsUnauthorized(err) {
			h.auth.ClearSession()
			redirectWith(w, r, "/auth/login", "err", err.Error())
			return
		}
		data := newPageData(r, sess, &imageListPage{Heading: "Image", Empty: "Not available."})
		data.Err = err.Error()
		render(w, h.renderer, "images.html", data)
		return
	}

	data := newPageData(r, sess, &imageDetailPage{
		Image: *image,
		Caps:  models.Capabilities(sess, *image),
	})
	render(w, h.renderer, "image_detail.html", data)
}

// UploadPage handles GET /images/upload
func (h *ImageHandler) UploadPage(w http.ResponseWriter, r *http.Request) {
	render(w, h.renderer, "upload.html", newPageData(r, middleware.GetSession(r.Context()), nil))
}

// Upload handles POST /images/upload
func (h *ImageHandler) Upload(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	if err := r.ParseMultipartForm(32 << 20); err != nil {
		redirectWith(w, r, "/images/upload", "err", "invalid upload form")
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		redirectWith(w, r, "/images/upload", "err", "an image file is required")
		return
	}
	defer file.Close()

	caption := strings.TrimSpace(r.PostFormValue("caption"))
	visibility := models.Visibility(r.PostFormValue("visibility"))

	if _, err := h.gallery.Upload(r.Context(), sess, header.Filename, file, caption, visibility); err != nil {
		failMutation(w, r, h.auth, "/images/upload", err)
		return
	}

	redirectWith(w, r, "/images/upload", "msg", "Image uploaded successfully")
}

// Delete handles POST /images/{imageID}/delete
func (h *ImageHandler) Delete(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	imageID, err := parseID(chi.URLParam(r, "imageID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := h.gallery.Delete(r.Context(), sess, imageID); err != nil {
		failMutation(w, r, h.auth, "/images/my-images", err)
		return
	}

	redirectWith(w, r, "/images/my-images", "msg", "Image deleted")
}

// Share handles POST /images/{imageID}/share
func (h *ImageHandler) Share(w http.ResponseWriter, r *http.Request) {
	sess := middleware.GetSession(r.Context())

	imageID, err := parseID(chi.URLParam(r, "imageID"))
	if err != nil {
		http.NotFound(w, r)
		return
	}

	if err := r.ParseForm(); err != nil {
		redirectWith(w, r, "/images/my-images", "err", "invalid form submission")
		return
	}

	grant, err := h.sharing.Share(r.Context(), sess, imageID, r.PostFormValue("shared_with_username"))
	if err != nil {
		failMutation(w, r, h.auth, "/images/my-images", err)
		return
	}

	redirectWith(w, r, "/images/my-images", "msg", "Shared with "+grant.SharedWithName)
}

// listError renders a list page with the failure inline, clearing the
// session first when the credential was rejected
func (h *ImageHandler) listError(w http.ResponseWriter, r *http.Request, sess models.Session, err error, data *pageData) {
	if api.IsUnauthorized(err) {
		h.auth.ClearSession()
		redirectWith(w, r, "/auth/login", "err", err.Error())
		return
	}
	log.Error().Err(err).Str("path", r.URL.Path).Msg("Failed to load images")
	data.Err = err.Error()
	render(w, h.renderer, "images.html", *data)
}

func parseID(raw string) (int64, error) {
	return strconv.ParseInt(raw, 10, 64)
}
