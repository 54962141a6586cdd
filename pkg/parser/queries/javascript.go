package queries

// JSImports matches module import sources in JavaScript component files.
// Both static ES imports and dynamic import() calls are captured; the
// extractor keeps only relative sources ("./…").
const JSImports = `
; Static import: import { thing } from './helpers.js';
(import_statement
  source: (string (string_fragment) @import.source)
)

; Re-export: export { thing } from './helpers.js';
(export_statement
  source: (string (string_fragment) @import.source)
)

; Dynamic import: const mod = await import('./lazy.js');
(call_expression
  function: (import)
  arguments: (arguments
    (string (string_fragment) @import.source)
  )
)
`

// JSProps matches the declared-props static getter of a web component:
//
//	static get observedAttributes() { return ['variant', 'size']; }
//
// Each string element of the returned array literal is captured in
// declaration order.
const JSProps = `
(method_definition
  name: (property_identifier) @props.getter
  body: (statement_block
    (return_statement
      (array
        (string (string_fragment) @props.name)
      )
    )
  )
  (#match? @props.getter "^(observedAttributes|props)$")
)
`

// JSClasses matches string literals assigned to class-like attributes:
// className assignment, setAttribute("class", …) and classList calls.
// Markup inside template literals is handled by the text pass instead.
const JSClasses = `
; el.className = 'card card--featured';
(assignment_expression
  left: (member_expression
    property: (property_identifier) @_prop
  )
  right: (string (string_fragment) @class.value)
  (#match? @_prop "^(className|class)$")
)

; el.setAttribute('class', 'card__title');
(call_expression
  function: (member_expression
    property: (property_identifier) @_fn
  )
  arguments: (arguments
    (string (string_fragment) @_attr
      (#match? @_attr "^(class|className)$")
    )
    (string (string_fragment) @class.value)
  )
  (#match? @_fn "^setAttribute$")
)

; el.classList.add('is-open');
(call_expression
  function: (member_expression
    object: (member_expression
      property: (property_identifier) @_list
      (#match? @_list "^classList$")
    )
    property: (property_identifier) @_method
    (#match? @_method "^(add|toggle|replace)$")
  )
  arguments: (arguments
    (string (string_fragment) @class.value)
  )
)
`
