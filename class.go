// class.go — classes, instances, method lookup.
package lox

// Class is a runtime class: a method table plus an optional
// superclass. Classes are callable; calling one constructs an
// instance and runs its "init" method when present.
type Class struct {
	Name       string
	Superclass *Class
	Methods    map[string]*Function
}

func NewClass(name string, superclass *Class, methods map[string]*Function) *Class {
	return &Class{Name: name, Superclass: superclass, Methods: methods}
}

// FindMethod looks up name on this class, then up the superclass
// chain; first match wins.
func (c *Class) FindMethod(name string) *Function {
	if m, ok := c.Methods[name]; ok {
		return m
	}
	if c.Superclass != nil {
		return c.Superclass.FindMethod(name)
	}
	return nil
}

// Arity is the initializer's arity, or zero without one.
func (c *Class) Arity() int {
	if init := c.FindMethod("init"); init != nil {
		return init.Arity()
	}
	return 0
}

// Call creates the instance, binds and runs "init" if present, and
// returns the instance regardless of what init did.
func (c *Class) Call(ip *Interpreter, args []Value) Value {
	inst := &Instance{Class: c, Fields: make(map[string]Value)}
	if init := c.FindMethod("init"); init != nil {
		init.Bind(inst).Call(ip, args)
	}
	return InstanceVal(inst)
}

// Instance is an object: a class reference plus dynamic fields.
type Instance struct {
	Class  *Class
	Fields map[string]Value
}

// Get returns the field if present, else a method from the class chain
// bound to this instance, else an undefined-property error. Fields
// shadow methods.
func (i *Instance) Get(name Token) (Value, *RuntimeError) {
	if v, ok := i.Fields[name.Lexeme]; ok {
		return v, nil
	}
	if m := i.Class.FindMethod(name.Lexeme); m != nil {
		return FunVal(m.Bind(i)), nil
	}
	return Nil, &RuntimeError{Token: name, Msg: "Undefined property '" + name.Lexeme + "'."}
}

// Set writes the field, creating it if new.
func (i *Instance) Set(name Token, v Value) {
	i.Fields[name.Lexeme] = v
}
