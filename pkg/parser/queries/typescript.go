package queries

// The TypeScript grammar shares the relevant node types with JavaScript
// (import_statement, method_definition, assignment_expression), so the
// TypeScript queries mirror the JavaScript ones. They are kept as separate
// constants because the grammars compile queries independently.

// TSImports matches module import sources in TypeScript files.
const TSImports = JSImports

// TSProps matches the declared-props static getter in TypeScript files.
const TSProps = JSProps

// TSClasses matches class-attribute string assignments in TypeScript files.
const TSClasses = JSClasses
