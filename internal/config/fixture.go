package config

// defaultFixtureYAML is a small desktop used until the user supplies their
// own tree: a window with a form, a tab strip and an on-screen keyboard.
const defaultFixtureYAML = `keyboard: kbd
back_button: host-back
root:
  id: desktop
  role: desktop
  location: {x: 0, y: 0, width: 800, height: 600}
  children:
    - id: mail
      role: window
      name: Mail
      location: {x: 0, y: 0, width: 800, height: 420}
      children:
        - id: tabs
          role: tab-list
          location: {x: 0, y: 0, width: 400, height: 30}
          children:
            - id: tab-inbox
              role: tab
              name: Inbox
              location: {x: 0, y: 0, width: 120, height: 30}
              children:
                - id: tab-inbox-close
                  role: button
                  name: Close Inbox
                  location: {x: 100, y: 5, width: 20, height: 20}
            - id: tab-drafts
              role: tab
              name: Drafts
              location: {x: 120, y: 0, width: 120, height: 30}
        - id: form
          role: group
          name: Compose
          location: {x: 0, y: 40, width: 500, height: 200}
          children:
            - id: to
              role: text-field
              name: To
              location: {x: 10, y: 50, width: 300, height: 24}
              state: [focusable, editable]
            - id: subject
              role: text-field
              name: Subject
              location: {x: 10, y: 80, width: 300, height: 24}
              state: [focusable, editable]
            - id: priority
              role: combo-box-select
              name: Priority
              location: {x: 10, y: 110, width: 120, height: 24}
              state: [clickable, collapsed]
            - id: volume
              role: slider
              name: Alert volume
              location: {x: 10, y: 140, width: 200, height: 24}
        - id: send
          role: button
          name: Send
          location: {x: 10, y: 250, width: 80, height: 30}
        - id: discard
          role: button
          name: Discard
          location: {x: 100, y: 250, width: 80, height: 30}
    - id: host-back
      role: button
      name: Back
      location: {x: 760, y: 560, width: 40, height: 40}
    - id: kbd
      role: keyboard
      location: {x: 0, y: 430, width: 400, height: 80}
      state: [invisible]
      children:
        - {id: key-q, role: button, name: q, location: {x: 0, y: 430, width: 36, height: 36}}
        - {id: key-w, role: button, name: w, location: {x: 40, y: 430, width: 36, height: 36}}
        - {id: key-e, role: button, name: e, location: {x: 80, y: 430, width: 36, height: 36}}
        - {id: key-a, role: button, name: a, location: {x: 0, y: 470, width: 36, height: 36}}
        - {id: key-s, role: button, name: s, location: {x: 40, y: 470, width: 36, height: 36}}
        - {id: key-d, role: button, name: d, location: {x: 80, y: 470, width: 36, height: 36}}
`
