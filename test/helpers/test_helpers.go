package helpers

import (
	"github.com/stretchr/testify/mock"

	"spprovision/domain/contracts"
	"spprovision/domain/provisioning"
	"spprovision/test/mocks"
)

// BoolPtr returns a pointer to b.
func BoolPtr(b bool) *bool {
	return &b
}

// ExpectEnsureList sets up a successful EnsureList for title.
func ExpectEnsureList(m *mocks.MockListClient, title, id string, created bool) *mock.Call {
	return m.On("EnsureList", mock.Anything, mock.MatchedBy(func(spec contracts.ListSpec) bool {
		return spec.Title == title
	})).Return(&provisioning.ListInfo{ID: id, Title: title, Created: created}, nil)
}

// ExpectFieldRecreate sets up delete, create and title update for a field that already exists.
func ExpectFieldRecreate(m *mocks.MockListClient, listTitle, fieldID, title string) {
	m.On("DeleteField", mock.Anything, listTitle, fieldID).Return(nil).Once()
	m.On("CreateFieldAsXML", mock.Anything, listTitle, mock.AnythingOfType("string")).
		Return(&contracts.FieldInfo{ID: fieldID}, nil).Once()
	m.On("UpdateField", mock.Anything, listTitle, fieldID, contracts.FieldUpdate{Title: &title}).Return(nil).Once()
}

// ExpectExistingView sets up a view lookup that finds the view.
func ExpectExistingView(m *mocks.MockListClient, listTitle, viewTitle string) *mock.Call {
	return m.On("GetView", mock.Anything, listTitle, viewTitle).
		Return(&contracts.ViewInfo{ID: "view-" + viewTitle, Title: viewTitle}, nil)
}

// ExpectViewFields sets up clearing and re-adding fields on a view.
func ExpectViewFields(m *mocks.MockListClient, listTitle, viewTitle string, fields ...string) {
	m.On("RemoveAllViewFields", mock.Anything, listTitle, viewTitle).Return(nil).Once()
	for _, f := range fields {
		m.On("AddViewField", mock.Anything, listTitle, viewTitle, f).Return(nil).Once()
	}
}
