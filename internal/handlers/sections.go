package handlers

import (
	"html/template"
	"strings"

	"luxesalon.cz/salon-web/internal/cms"
	"luxesalon.cz/salon-web/internal/config"
	"luxesalon.cz/salon-web/internal/format"
	"luxesalon.cz/salon-web/internal/i18n"
	"luxesalon.cz/salon-web/internal/richtext"
	"luxesalon.cz/salon-web/internal/sections"
	"luxesalon.cz/salon-web/internal/seo"
)

// ServicesView is the rendered pricelist.
type ServicesView struct {
	State  string
	Groups []ServiceGroupView
}

type ServiceGroupView struct {
	Key   string
	Label string
	Items []ServiceView
}

type ServiceView struct {
	ID          int64
	Name        string
	Description template.HTML
	Price       string
}

// BuildServicesView localizes a services snapshot. Group labels come from
// the category record when known, else from the services.category.* strings.
func BuildServicesView(snap sections.ServicesSnapshot, lang i18n.Language, tr Translator, pricing config.PricingConfig) ServicesView {
	view := ServicesView{State: snap.State.String()}
	for _, g := range snap.Groups {
		gv := ServiceGroupView{Key: g.Key, Label: g.Label.In(lang)}
		if gv.Label == "" {
			gv.Label = categoryLabel(g.Key, lang, tr)
		}
		for _, s := range g.Services {
			gv.Items = append(gv.Items, ServiceView{
				ID:          s.ID,
				Name:        s.Name.In(lang),
				Description: richtext.Render(s.Description.In(lang)),
				Price:       format.Price(s.Price, pricing.For(s.Currency)),
			})
		}
		view.Groups = append(view.Groups, gv)
	}
	return view
}

func categoryLabel(key string, lang i18n.Language, tr Translator) string {
	if key == "" {
		return tr.T(lang, "services.category.other")
	}
	k := "services.category." + strings.ToLower(key)
	if v := tr.T(lang, k); v != k {
		return v
	}
	return key
}

// GalleryView is the rendered gallery.
type GalleryView struct {
	State       string
	Items       []GalleryItemView
	ShowViewAll bool
}

type GalleryItemView struct {
	ID      int64
	URL     string
	Alt     string
	Caption string
}

// BuildGalleryView resolves image URLs with assetURL and localizes captions.
func BuildGalleryView(snap sections.GallerySnapshot, lang i18n.Language, tr Translator, assetURL func(string) string) GalleryView {
	view := GalleryView{State: snap.State.String(), ShowViewAll: snap.ShowViewAll}
	for _, it := range snap.Items {
		alt := strings.TrimSpace(it.Alt)
		caption := it.Caption(lang)
		if alt == "" {
			alt = caption
		}
		if alt == "" {
			alt = tr.T(lang, "gallery.alt_default")
		}
		view.Items = append(view.Items, GalleryItemView{
			ID:      it.ID,
			URL:     assetURL(it.Image),
			Alt:     alt,
			Caption: caption,
		})
	}
	return view
}

// ContactView is the rendered contact form.
type ContactView struct {
	State       string
	Fields      sections.ContactFields
	FieldErrors map[string]string
	Notice      string
	Throttled   bool
	CSRFToken   string
	MaxUpload   int64
	// Attachment names a file from an earlier post that the next post must
	// carry. AttachmentStored means the content API already holds it and
	// AttachmentRef is the signed reference the form echoes back; otherwise
	// the visitor has to attach it again.
	Attachment       string
	AttachmentStored bool
	AttachmentRef    string
}

// Success reports whether the thank-you panel replaces the form.
func (v ContactView) Success() bool { return v.State == sections.SubmitSuccess.String() }

// BuildContactView localizes a workflow snapshot. fieldErrs carries checks
// done before the workflow ran (email format, attachment type and size).
func BuildContactView(snap sections.ContactSnapshot, fieldErrs map[string]string, lang i18n.Language, tr Translator) ContactView {
	view := ContactView{State: snap.State.String(), Fields: snap.Fields}
	if snap.State != sections.SubmitSuccess {
		view.Attachment = snap.Attachment
		view.AttachmentStored = snap.AttachmentFileID != ""
	}
	merged := map[string]string{}
	for k, v := range snap.FieldErrors {
		merged[k] = v
	}
	for k, v := range fieldErrs {
		merged[k] = v
	}
	if len(merged) > 0 {
		view.FieldErrors = make(map[string]string, len(merged))
		for field, tag := range merged {
			view.FieldErrors[field] = tr.T(lang, contactErrorKey(tag))
		}
	}
	switch snap.State {
	case sections.SubmitSuccess:
		view.Notice = tr.T(lang, "contact.success")
	case sections.SubmitFailed:
		view.Notice = tr.T(lang, "contact.error")
	}
	return view
}

func contactErrorKey(tag string) string {
	switch tag {
	case "email":
		return "contact.invalid_email"
	case "image":
		return "contact.attachment_type"
	case "size":
		return "contact.attachment_size"
	case "reattach":
		return "contact.attachment_reattach"
	default:
		return "contact.required"
	}
}

// Offers flattens loaded services for the OfferCatalog structured data.
// view must have been built from snap.
func Offers(view ServicesView, snap sections.ServicesSnapshot, lang i18n.Language, pricing config.PricingConfig) []seo.Offer {
	var out []seo.Offer
	for i, g := range snap.Groups {
		label := g.Key
		if i < len(view.Groups) {
			label = view.Groups[i].Label
		}
		for _, s := range g.Services {
			out = append(out, seo.Offer{
				Name:        s.Name.In(lang),
				Description: richtext.PlainText(s.Description.In(lang), 200),
				Price:       s.Price,
				Currency:    offerCurrency(s, pricing),
				Category:    label,
			})
		}
	}
	return out
}

func offerCurrency(s cms.Service, pricing config.PricingConfig) string {
	return strings.ToUpper(strings.TrimSpace(pricing.For(s.Currency).CurrencyCode))
}
