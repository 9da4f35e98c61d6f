// Package cmof reads CMOF metamodel files (XMI 2.x) into an editable tree.
//
// A parsed Document indexes every identified element by its xmi:id. Elements
// are ordered attribute lists so that a parsed metamodel serializes back to
// JSON with a stable field order:
//
//	doc, err := cmof.NewParser(cmof.Options{Clean: true}).ParseFile("BPMN20.cmof")
//	if err != nil {
//		return err
//	}
//	pkg := doc.Package()
//	prop, _ := doc.ByID["Definitions"].Property("rootElements")
//
// Packages expose their members as "types", "enumerations", "associations"
// and "packages"; classes expose "superClass" and "properties"; type
// references are resolved to the referenced element's name while
// "association" references keep the raw identifier.
package cmof
