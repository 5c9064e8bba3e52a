package model

// AssociationKind classifies how an attribute relates to another entity type.
type AssociationKind string

const (
	// AssociationNone means the attribute is a plain column.
	AssociationNone AssociationKind = ""
	// AssociationSingle covers belongs-to and has-one relationships. Submitted
	// values are treated as the target's identifier.
	AssociationSingle AssociationKind = "single"
	// AssociationOther covers collection relationships (has-many and friends),
	// which the update handler assigns as raw values.
	AssociationOther AssociationKind = "other"
)

// Association is the reflection result a store returns for an attribute.
type Association struct {
	Kind   AssociationKind
	Target string
}

// NoAssociation is the zero association.
func NoAssociation() Association { return Association{} }

// SingleAssociation describes a belongs-to/has-one relationship to target.
func SingleAssociation(target string) Association {
	return Association{Kind: AssociationSingle, Target: target}
}

// OtherAssociation describes any relationship that is not one-to-one.
func OtherAssociation(target string) Association {
	return Association{Kind: AssociationOther, Target: target}
}

// IsSingle reports whether the association resolves submitted values to a
// single target entity.
func (a Association) IsSingle() bool {
	return a.Kind == AssociationSingle && a.Target != ""
}
