package spclient

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"spprovision/domain/contracts"
	"spprovision/domain/provisioning"
	"spprovision/logging"

	"github.com/koltyakov/gosip"
	"github.com/koltyakov/gosip/api"
)

// fieldCreationOptions is SP.AddFieldOptions AddFieldInternalNameHint. The field
// is added to the list only; the list's content types are left unchanged.
const fieldCreationOptions = 8

// ListFields selects the list properties needed to fill a ListInfo.
const ListFields = `Id,Title,RootFolder/ServerRelativeUrl`

// ListClient implements contracts.ListClient over the SharePoint REST API.
// The gosip fluent API covers most calls; the auth client is used for
// endpoints gosip does not wrap (content type binding, view fields).
type ListClient struct {
	gosipAPI      *api.SP
	authClient    *gosip.SPClient
	siteURL       string
	defaultConfig *api.RequestConfig
	logger        *logging.Logger
}

var _ contracts.ListClient = (*ListClient)(nil)

// NewListClient creates a list client for the site the auth client is bound to.
func NewListClient(gosipAPI *api.SP, authClient *gosip.SPClient) *ListClient {
	siteURL := ""
	if authClient != nil && authClient.AuthCnfg != nil {
		siteURL = strings.TrimRight(authClient.AuthCnfg.GetSiteURL(), "/")
	}
	return &ListClient{
		gosipAPI:      gosipAPI,
		authClient:    authClient,
		siteURL:       siteURL,
		defaultConfig: &api.RequestConfig{},
		logger:        logging.Default().WithComponent("sharepoint_client"),
	}
}

// createRequestConfig creates a RequestConfig with the provided context, inheriting default configuration.
func (c *ListClient) createRequestConfig(ctx context.Context) *api.RequestConfig {
	config := *c.defaultConfig
	config.Context = ctx
	return &config
}

func (c *ListClient) sp(ctx context.Context) *api.SP {
	return c.gosipAPI.Conf(c.createRequestConfig(ctx))
}

// SiteURL returns the absolute URL of the target site.
func (c *ListClient) SiteURL() string {
	return c.siteURL
}

// EnsureList returns the list titled spec.Title, creating it when absent.
// AdditionalSettings are applied to existing lists as well.
func (c *ListClient) EnsureList(ctx context.Context, spec contracts.ListSpec) (*provisioning.ListInfo, error) {
	info, err := c.getList(ctx, spec.Title)
	if err == nil {
		if len(spec.AdditionalSettings) > 0 {
			body, err := json.Marshal(spec.AdditionalSettings)
			if err != nil {
				return nil, fmt.Errorf("encode list settings: %w", err)
			}
			if _, err := c.sp(ctx).Web().Lists().GetByTitle(spec.Title).Update(body); err != nil {
				return nil, fmt.Errorf("update list: %w", err)
			}
		}
		return info, nil
	}
	if !isNotFound(err) {
		return nil, err
	}

	c.logger.SharePoint("Creating list", "list", spec.Title, "template", spec.Template)
	res, err := c.sp(ctx).Web().Lists().Add(spec.Title, listCreateMetadata(spec))
	if err != nil {
		return nil, fmt.Errorf("add list: %w", err)
	}
	created, err := decodeList(res.Normalized())
	if err != nil {
		return nil, err
	}

	info = &provisioning.ListInfo{ID: created.Id, Title: firstNonEmpty(created.Title, spec.Title), Created: true}
	// RootFolder is deferred in the add response.
	if fresh, err := c.getList(ctx, spec.Title); err == nil {
		info.URL = fresh.URL
	} else {
		c.logger.Debug("Failed to read URL of new list", "list", spec.Title, "error", err)
	}
	return info, nil
}

func (c *ListClient) getList(ctx context.Context, title string) (*provisioning.ListInfo, error) {
	res, err := c.sp(ctx).Web().Lists().GetByTitle(title).Select(ListFields).Expand("RootFolder").Get()
	if err != nil {
		return nil, wrapNotFound(fmt.Errorf("get list: %w", err))
	}
	l, err := decodeList(res.Normalized())
	if err != nil {
		return nil, err
	}
	return &provisioning.ListInfo{
		ID:    l.Id,
		Title: l.Title,
		URL:   joinURL(c.siteURL, l.RootFolder.ServerRelativeUrl),
	}, nil
}

// AddAvailableContentType binds a site content type to the list.
func (c *ListClient) AddAvailableContentType(ctx context.Context, listTitle, contentTypeID string) error {
	body, err := json.Marshal(map[string]string{"contentTypeId": contentTypeID})
	if err != nil {
		return err
	}
	endpoint := listEndpoint(c.siteURL, listTitle, "/ContentTypes/AddAvailableContentType")
	if _, err := api.NewHTTPClient(c.authClient).Post(endpoint, bytes.NewBuffer(body), c.createRequestConfig(ctx)); err != nil {
		return fmt.Errorf("add available content type: %w", err)
	}
	c.logger.SharePoint("Content type bound", "list", listTitle, "content_type_id", contentTypeID)
	return nil
}

// GetContentTypes lists the content types attached to the list.
func (c *ListClient) GetContentTypes(ctx context.Context, listTitle string) ([]contracts.ContentTypeInfo, error) {
	res, err := c.sp(ctx).Web().Lists().GetByTitle(listTitle).ContentTypes().Get()
	if err != nil {
		return nil, wrapNotFound(fmt.Errorf("get content types: %w", err))
	}
	return decodeContentTypes(res.Normalized())
}

// DeleteContentType detaches a content type from the list.
func (c *ListClient) DeleteContentType(ctx context.Context, listTitle, contentTypeID string) error {
	if err := c.sp(ctx).Web().Lists().GetByTitle(listTitle).ContentTypes().GetByID(contentTypeID).Delete(); err != nil {
		return wrapNotFound(fmt.Errorf("delete content type: %w", err))
	}
	return nil
}

// DeleteField removes a field from the list.
func (c *ListClient) DeleteField(ctx context.Context, listTitle, fieldID string) error {
	if err := c.sp(ctx).Web().Lists().GetByTitle(listTitle).Fields().GetByID(fieldID).Delete(); err != nil {
		return wrapNotFound(fmt.Errorf("delete field: %w", err))
	}
	return nil
}

// CreateFieldAsXML adds a field to the list from its schema XML.
func (c *ListClient) CreateFieldAsXML(ctx context.Context, listTitle, schemaXML string) (*contracts.FieldInfo, error) {
	res, err := c.sp(ctx).Web().Lists().GetByTitle(listTitle).Fields().CreateFieldAsXML(schemaXML, fieldCreationOptions)
	if err != nil {
		return nil, fmt.Errorf("create field as xml: %w", err)
	}
	return decodeField(res.Normalized())
}

// UpdateField merges the non-nil members of update into the field.
func (c *ListClient) UpdateField(ctx context.Context, listTitle, fieldID string, update contracts.FieldUpdate) error {
	if update.IsEmpty() {
		return nil
	}
	body, err := fieldUpdateBody(update)
	if err != nil {
		return err
	}
	if _, err := c.sp(ctx).Web().Lists().GetByTitle(listTitle).Fields().GetByID(fieldID).Update(body); err != nil {
		return wrapNotFound(fmt.Errorf("update field: %w", err))
	}
	return nil
}

// GetView returns the view titled viewTitle, or contracts.ErrNotFound.
func (c *ListClient) GetView(ctx context.Context, listTitle, viewTitle string) (*contracts.ViewInfo, error) {
	res, err := c.sp(ctx).Web().Lists().GetByTitle(listTitle).Views().GetByTitle(viewTitle).Get()
	if err != nil {
		return nil, wrapNotFound(fmt.Errorf("get view: %w", err))
	}
	return decodeView(res.Normalized())
}

// UpdateView merges settings into an existing view.
func (c *ListClient) UpdateView(ctx context.Context, listTitle, viewTitle string, settings map[string]any) error {
	body, err := json.Marshal(settings)
	if err != nil {
		return fmt.Errorf("encode view settings: %w", err)
	}
	if _, err := c.sp(ctx).Web().Lists().GetByTitle(listTitle).Views().GetByTitle(viewTitle).Update(body); err != nil {
		return wrapNotFound(fmt.Errorf("update view: %w", err))
	}
	return nil
}

// AddView creates a view on the list.
func (c *ListClient) AddView(ctx context.Context, listTitle, viewTitle string, personal bool, settings map[string]any) (*contracts.ViewInfo, error) {
	body, err := viewCreateBody(viewTitle, personal, settings)
	if err != nil {
		return nil, fmt.Errorf("encode view: %w", err)
	}
	res, err := c.sp(ctx).Web().Lists().GetByTitle(listTitle).Views().Add(body)
	if err != nil {
		return nil, fmt.Errorf("add view: %w", err)
	}
	return decodeView(res.Normalized())
}

// RemoveAllViewFields clears the field collection of a view.
func (c *ListClient) RemoveAllViewFields(ctx context.Context, listTitle, viewTitle string) error {
	endpoint := viewFieldsEndpoint(c.siteURL, listTitle, viewTitle, "/RemoveAllViewFields")
	if _, err := api.NewHTTPClient(c.authClient).Post(endpoint, bytes.NewBufferString("{}"), c.createRequestConfig(ctx)); err != nil {
		return wrapNotFound(fmt.Errorf("remove all view fields: %w", err))
	}
	return nil
}

// AddViewField appends a field, by internal name, to a view.
func (c *ListClient) AddViewField(ctx context.Context, listTitle, viewTitle, fieldName string) error {
	endpoint := viewFieldsEndpoint(c.siteURL, listTitle, viewTitle,
		fmt.Sprintf("/AddViewField('%s')", odataLiteral(fieldName)))
	if _, err := api.NewHTTPClient(c.authClient).Post(endpoint, bytes.NewBufferString("{}"), c.createRequestConfig(ctx)); err != nil {
		return wrapNotFound(fmt.Errorf("add view field: %w", err))
	}
	return nil
}
