// class.go — class and instance runtime.
//
// A class is a callable whose invocation allocates an instance and, when an
// 'init' method exists, runs it bound to that instance. Method lookup walks
// the superclass chain; property reads on an instance try fields first, then
// bound methods. Property writes set a field unconditionally.
package lox

// Class is a runtime class value.
type Class struct {
	Name       string
	Superclass *Class // nil for base classes
	Methods    map[string]*Function
}

// FindMethod looks name up on the class, then up the superclass chain.
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

// Call constructs an instance. The instance is returned regardless of what
// the initializer does (an initializer's own returns yield 'this').
func (c *Class) Call(ip *Interpreter, args []Value) Value {
	inst := NewInstance(c)
	if init := c.FindMethod("init"); init != nil {
		init.Bind(inst).Call(ip, args)
	}
	return InstanceVal(inst)
}

func (c *Class) String() string { return c.Name }

// Instance is an object with a class and a mutable field table.
type Instance struct {
	class  *Class
	fields map[string]Value
}

// NewInstance allocates an empty instance of the class.
func NewInstance(c *Class) *Instance {
	return &Instance{class: c, fields: map[string]Value{}}
}

// Get resolves a property read: field first, then a method bound to this
// instance. A miss raises the runtime error at the property token.
func (i *Instance) Get(name Token) Value {
	if v, ok := i.fields[name.Lexeme]; ok {
		return v
	}
	if m := i.class.FindMethod(name.Lexeme); m != nil {
		return FunVal(m.Bind(i))
	}
	fail(name, "Undefined property '"+name.Lexeme+"'.")
	return Nil // unreachable
}

// SetField writes a field unconditionally.
func (i *Instance) SetField(name Token, v Value) {
	i.fields[name.Lexeme] = v
}

func (i *Instance) String() string { return i.class.Name + " instance" }
