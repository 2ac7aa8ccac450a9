package html

// CSRFScript exposes the CSRF cookie as window.csrfToken() for fetch calls
// and injects a hidden _csrf field into plain POST forms.
func CSRFScript() string {
	return `<script>
(function () {
  function getCookie(name) {
    var prefix = name + "=";
    var parts = document.cookie ? document.cookie.split(";") : [];
    for (var i = 0; i < parts.length; i++) {
      var c = parts[i].trim();
      if (c.indexOf(prefix) === 0) return decodeURIComponent(c.substring(prefix.length));
    }
    return "";
  }

  window.csrfToken = function () {
    return getCookie("X-CSRF-Token");
  };

  function inject() {
    var token = window.csrfToken();
    if (!token) return;
    var forms = document.querySelectorAll("form[method='post'], form[method='POST']");
    for (var i = 0; i < forms.length; i++) {
      if (forms[i].querySelector("input[name='_csrf']")) continue;
      var input = document.createElement("input");
      input.type = "hidden";
      input.name = "_csrf";
      input.value = token;
      forms[i].appendChild(input);
    }
  }

  if (document.readyState === "loading") {
    document.addEventListener("DOMContentLoaded", inject);
  } else {
    inject();
  }
})();
</script>`
}
