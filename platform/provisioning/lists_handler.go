package provisioning

import (
	"context"
	"fmt"
	"strings"

	"spprovision/domain/contracts"
	domain "spprovision/domain/provisioning"
	"spprovision/logging"
)

// ListsHandler provisions lists and their dependents.
//
// Work runs in four passes over all lists: lists (with content type
// bindings), fields, field refs, views. Every remote call is awaited before
// the next is issued so that no two writes hit the same list concurrently,
// and a field in a later list can reference an earlier list through
// {listid:Title}.
type ListsHandler struct {
	client contracts.ListClient
	logger *logging.Logger

	cache  *domain.ListCache
	tokens *domain.TokenReplacer
}

// NewListsHandler creates a Lists handler bound to client.
func NewListsHandler(client contracts.ListClient) *ListsHandler {
	return &ListsHandler{
		client: client,
		logger: logging.Default().WithComponent("lists_handler"),
	}
}

// Name implements ObjectHandler.
func (h *ListsHandler) Name() string {
	return "Lists"
}

// Lists returns the lists ensured by the most recent ProvisionObjects call.
func (h *ListsHandler) Lists() []domain.ListInfo {
	if h.cache == nil {
		return nil
	}
	return h.cache.All()
}

type listPhase struct {
	name string
	run  func(ctx context.Context, list domain.ListInstance, obs Observer) error
}

// ProvisionObjects implements ObjectHandler.
func (h *ListsHandler) ProvisionObjects(ctx context.Context, schema *domain.Schema, obs Observer) error {
	if obs == nil {
		obs = NopObserver{}
	}
	h.cache = domain.NewListCache()
	h.tokens = domain.NewTokenReplacer(h.cache)

	phases := []listPhase{
		{PhaseLists, h.processList},
		{PhaseFields, h.processFields},
		{PhaseFieldRefs, h.processFieldRefs},
		{PhaseViews, h.processViews},
	}

	for _, phase := range phases {
		obs.PhaseStarted(ctx, phase.name)
		for _, list := range schema.Lists {
			if err := ctx.Err(); err != nil {
				return err
			}
			if err := phase.run(ctx, list, obs); err != nil {
				return fmt.Errorf("%s: list %q: %w", phase.name, list.Title, err)
			}
		}
	}
	return nil
}

func (h *ListsHandler) processList(ctx context.Context, list domain.ListInstance, obs Observer) error {
	log := h.logger.WithContext(ctx)

	info, err := h.client.EnsureList(ctx, contracts.ListSpec{
		Title:               list.Title,
		Description:         list.Description,
		Template:            list.EffectiveTemplate(),
		ContentTypesEnabled: list.ContentTypesEnabled,
		AdditionalSettings:  list.AdditionalSettings,
	})
	if err != nil {
		return fmt.Errorf("ensure list: %w", err)
	}
	h.cache.Add(*info)
	obs.ListEnsured(ctx, *info)

	if info.Created {
		log.Provisioning("List created", list.Title, "list_id", info.ID)
	} else {
		log.Provisioning("List already exists", list.Title, "list_id", info.ID)
	}

	if len(list.ContentTypeBindings) == 0 {
		return nil
	}
	return h.processContentTypeBindings(ctx, list, obs)
}

func (h *ListsHandler) processContentTypeBindings(ctx context.Context, list domain.ListInstance, obs Observer) error {
	log := h.logger.WithContext(ctx)

	for _, binding := range list.ContentTypeBindings {
		if err := h.client.AddAvailableContentType(ctx, list.Title, binding.ContentTypeID); err != nil {
			if ctx.Err() != nil {
				return ctx.Err()
			}
			// Already bound or unknown on the site; neither blocks the rest of the list.
			log.Warn("Content type binding skipped",
				"list", list.Title,
				"content_type_id", binding.ContentTypeID,
				"error", err)
			obs.Changed(ctx, ChangeContentTypeSkipped, list.Title, binding.ContentTypeID)
			continue
		}
		obs.Changed(ctx, ChangeContentTypeBound, list.Title, binding.ContentTypeID)
	}

	if !list.RemoveExistingContentTypes {
		return nil
	}

	existing, err := h.client.GetContentTypes(ctx, list.Title)
	if err != nil {
		return fmt.Errorf("get content types: %w", err)
	}
	for _, ct := range existing {
		if !shouldRemoveContentType(ct.ID, list.ContentTypeBindings) {
			continue
		}
		if err := h.client.DeleteContentType(ctx, list.Title, ct.ID); err != nil {
			return fmt.Errorf("remove content type %s: %w", ct.ID, err)
		}
		log.Provisioning("Content type removed", list.Title, "content_type_id", ct.ID, "content_type", ct.Name)
		obs.Changed(ctx, ChangeContentTypeRemoved, list.Title, ct.ID)
	}
	return nil
}

// shouldRemoveContentType reports whether a list content type is neither
// derived from a bound content type nor a folder content type.
func shouldRemoveContentType(id string, bindings []domain.ContentTypeBinding) bool {
	upper := strings.ToUpper(id)
	if strings.Contains(upper, strings.ToUpper(domain.FolderContentTypePrefix)) {
		return false
	}
	for _, b := range bindings {
		if strings.Contains(upper, strings.ToUpper(b.ContentTypeID)) {
			return false
		}
	}
	return true
}

func (h *ListsHandler) processFields(ctx context.Context, list domain.ListInstance, obs Observer) error {
	for _, fieldXML := range list.Fields {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.processField(ctx, list, fieldXML, obs); err != nil {
			return err
		}
	}
	return nil
}

func (h *ListsHandler) processField(ctx context.Context, list domain.ListInstance, fieldXML string, obs Observer) error {
	log := h.logger.WithContext(ctx)

	def, err := domain.ParseFieldXML(fieldXML)
	if err != nil {
		return err
	}
	schemaXML := h.tokens.Replace(def.InternalNameXML())
	if unresolved := h.tokens.Unresolved(def.InternalNameXML()); len(unresolved) > 0 {
		log.Warn("Field definition has unresolved tokens", "list", list.Title, "field", def.Name, "tokens", unresolved)
	}

	change := ChangeFieldRecreated
	if err := h.client.DeleteField(ctx, list.Title, def.ID); err != nil {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Debug("Field not deleted, creating it", "list", list.Title, "field", def.Name, "error", err)
		change = ChangeFieldCreated
	}

	created, err := h.client.CreateFieldAsXML(ctx, list.Title, schemaXML)
	if err != nil {
		return fmt.Errorf("create field %s: %w", def.Name, err)
	}
	fieldID := created.ID
	if fieldID == "" {
		fieldID = def.ID
	}

	title := def.Title()
	if err := h.client.UpdateField(ctx, list.Title, fieldID, contracts.FieldUpdate{Title: &title}); err != nil {
		return fmt.Errorf("set title of field %s: %w", def.Name, err)
	}

	log.Provisioning("Field provisioned", list.Title, "field", def.Name, "field_id", fieldID, "change", string(change))
	obs.Changed(ctx, change, list.Title, def.Name)
	return nil
}

func (h *ListsHandler) processFieldRefs(ctx context.Context, list domain.ListInstance, obs Observer) error {
	for _, ref := range list.FieldRefs {
		update := contracts.FieldUpdate{Hidden: ref.Hidden, Required: ref.Required}
		if ref.DisplayName != "" {
			title := ref.DisplayName
			update.Title = &title
		}
		if update.IsEmpty() {
			continue
		}
		if err := h.client.UpdateField(ctx, list.Title, ref.ID, update); err != nil {
			return fmt.Errorf("update field ref %s: %w", ref.ID, err)
		}
		obs.Changed(ctx, ChangeFieldRefUpdated, list.Title, ref.ID)
	}
	return nil
}

func (h *ListsHandler) processViews(ctx context.Context, list domain.ListInstance, obs Observer) error {
	for _, view := range list.Views {
		if err := ctx.Err(); err != nil {
			return err
		}
		if err := h.processView(ctx, list, view, obs); err != nil {
			return err
		}
	}
	return nil
}

func (h *ListsHandler) processView(ctx context.Context, list domain.ListInstance, view domain.ListView, obs Observer) error {
	log := h.logger.WithContext(ctx)

	if _, err := h.client.GetView(ctx, list.Title, view.Title); err == nil {
		if len(view.AdditionalSettings) > 0 {
			if err := h.client.UpdateView(ctx, list.Title, view.Title, view.AdditionalSettings); err != nil {
				return fmt.Errorf("update view %q: %w", view.Title, err)
			}
		}
		obs.Changed(ctx, ChangeViewUpdated, list.Title, view.Title)
	} else {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		log.Debug("View lookup failed, creating it", "list", list.Title, "view", view.Title, "error", err)
		if _, err := h.client.AddView(ctx, list.Title, view.Title, view.PersonalView, view.AdditionalSettings); err != nil {
			return fmt.Errorf("add view %q: %w", view.Title, err)
		}
		obs.Changed(ctx, ChangeViewCreated, list.Title, view.Title)
	}

	if view.ViewFields == nil {
		return nil
	}
	return h.processViewFields(ctx, list.Title, view)
}

func (h *ListsHandler) processViewFields(ctx context.Context, listTitle string, view domain.ListView) error {
	if err := h.client.RemoveAllViewFields(ctx, listTitle, view.Title); err != nil {
		return fmt.Errorf("clear fields of view %q: %w", view.Title, err)
	}
	for _, field := range view.ViewFields {
		if err := h.client.AddViewField(ctx, listTitle, view.Title, field); err != nil {
			return fmt.Errorf("add field %s to view %q: %w", field, view.Title, err)
		}
	}
	return nil
}
