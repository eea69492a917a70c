// Package ir defines the intermediate representation consumed by the
// shaderinline inliner: a statically typed, GLSL-derived tree with
// functions, structured control flow, blocks, variable declarations with
// storage classes, expressions, and a symbol-table-based scoping model.
//
// # Structure
//
// Unlike an arena/handle IR, nodes here form a conventional single-owner
// tree: each interior node owns its children outright, and upward
// references (from a VariableReference to its Variable, or from a call to
// its FunctionDeclaration) are non-owning handles resolved by identity, not by
// index. This shape is what lets a pass like the inliner splice a cloned
// subtree into an existing statement slot in place.
//
// # Ownership
//
// Expression and Statement nodes are owned by their parent node.
// SymbolTable additionally owns the Variable objects, type instances, and
// name strings it introduces. Lookups walk the SymbolTable parent chain;
// nothing outside a symbol table's lifetime can resolve through it.
package ir
